package translate

import (
	"context"
	"time"

	"github.com/deusflow/uscisnews/internal/cache"
)

// Cached remembers successful translations so repeated runs do not send the
// same summary again. Failures are never cached.
type Cached struct {
	next  Translator
	cache *cache.Cache
	ttl   time.Duration
}

func NewCached(next Translator, c *cache.Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl}
}

func (c *Cached) Translate(ctx context.Context, text, target string) Result {
	key := cache.GenerateKey(target, text)
	if v, ok := c.cache.Get(key); ok {
		return Translated(v)
	}

	res := c.next.Translate(ctx, text, target)
	if res.OK() {
		c.cache.Set(key, res.Text, c.ttl)
	}
	return res
}
