package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/deusflow/uscisnews/internal/cache"
	"github.com/deusflow/uscisnews/internal/config"
	"github.com/deusflow/uscisnews/internal/metrics"
	"github.com/deusflow/uscisnews/internal/rss"
	"github.com/deusflow/uscisnews/internal/scraper"
	"github.com/deusflow/uscisnews/internal/source"
	"github.com/deusflow/uscisnews/internal/telegram"
	"github.com/deusflow/uscisnews/internal/translate"
	"github.com/deusflow/uscisnews/internal/wordpress"
)

const cacheCleanupInterval = 10 * time.Minute

// Build wires an App from configuration. The returned cleanup releases the
// store, translator and cache and must be called once the App is done.
func Build(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *slog.Logger) (*App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	profile := source.Default(cfg.ListingURL, cfg.BaseURL)
	if cfg.SourceConfigPath != "" {
		p, err := source.Load(cfg.SourceConfigPath, profile)
		if err != nil {
			return nil, cleanup, err
		}
		profile = p
		log.Info("source profile loaded", "path", cfg.SourceConfigPath, "listing_url", profile.ListingURL)
	}

	sc := scraper.New(profile, scraper.Options{
		Timeout:             cfg.HTTPTimeout,
		UserAgent:           cfg.UserAgent,
		ReadabilityFallback: cfg.ReadabilityFallback,
	}, log)

	var lister Lister = sc
	if cfg.ListingFeedURL != "" {
		lister = rss.NewFeedLister(cfg.ListingFeedURL, cfg.UserAgent, cfg.HTTPTimeout, log)
		log.Info("using feed listing", "url", cfg.ListingFeedURL)
	}

	tr, err := newTranslator(cfg)
	if err != nil {
		return nil, cleanup, err
	}
	if c, ok := tr.(interface{ Close() }); ok {
		closers = append(closers, c.Close)
	}

	// Repeated runs see the same listing, so cache translations between them.
	if cfg.RunInterval > 0 {
		c := cache.New(cacheCleanupInterval)
		closers = append(closers, c.Close)
		tr = translate.NewCached(tr, c, cfg.TranslationCacheTTL)
	}

	store, closeStore, err := NewStore(ctx, cfg, log)
	closers = append(closers, closeStore)
	if err != nil {
		return nil, cleanup, err
	}

	deps := Deps{
		Lister:     lister,
		Extractor:  sc,
		Translator: tr,
		Publisher:  wordpress.NewPublisher(cfg.SiteURL, cfg.Username, cfg.AppPassword, cfg.HTTPTimeout, log),
		Store:      store,
		Metrics:    m,
	}
	if cfg.NotifyEnabled() {
		deps.Notifier = telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.HTTPTimeout, log)
	}

	a := New(deps, Options{
		SummaryRatio:         cfg.SummaryRatio,
		TargetLang:           cfg.TargetLang,
		SaveAfterEachPublish: cfg.SaveAfterEachPublish,
	}, log)
	return a, cleanup, nil
}

func newTranslator(cfg *config.Config) (translate.Translator, error) {
	var key string
	switch cfg.Translator {
	case "gemini":
		key = cfg.GeminiAPIKey
	case "openai":
		key = cfg.OpenAIAPIKey
	}
	tr, err := translate.New(cfg.Translator, key, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}
	return tr, nil
}
