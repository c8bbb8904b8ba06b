package rss

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/uscisnews/internal/scraper"
)

// FeedLister reads listing candidates from an RSS/Atom feed instead of the
// HTML listing page.
type FeedLister struct {
	feedURL string
	parser  *gofeed.Parser
	log     *slog.Logger
}

func NewFeedLister(feedURL, userAgent string, timeout time.Duration, log *slog.Logger) *FeedLister {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &FeedLister{
		feedURL: feedURL,
		parser:  parser,
		log:     log.With(slog.String("component", "rss")),
	}
}

// List returns feed items in feed order. Errors are logged and yield an
// empty list, like a failed listing page.
func (f *FeedLister) List(ctx context.Context) []scraper.Candidate {
	feed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		f.log.Warn("Error parsing listing feed", slog.String("url", f.feedURL), slog.Any("error", err))
		return nil
	}

	out := make([]scraper.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		out = append(out, scraper.Candidate{
			Title: strings.TrimSpace(item.Title),
			URL:   link,
		})
	}

	f.log.Info("Listing feed fetched", slog.String("url", f.feedURL), slog.Int("count", len(out)))
	return out
}
