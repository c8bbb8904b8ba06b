package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/deusflow/uscisnews/internal/metrics"
	"github.com/deusflow/uscisnews/internal/scraper"
	"github.com/deusflow/uscisnews/internal/storage"
	"github.com/deusflow/uscisnews/internal/summary"
	"github.com/deusflow/uscisnews/internal/translate"
)

// Lister returns the current news release candidates in listing order.
type Lister interface {
	List(ctx context.Context) []scraper.Candidate
}

// Extractor returns the body markup of one article, or "" when unavailable.
type Extractor interface {
	ExtractBody(ctx context.Context, articleURL string) string
}

type Publisher interface {
	Publish(ctx context.Context, title, sourceURL, content string) error
}

type Notifier interface {
	NotifyPublished(ctx context.Context, title, sourceURL string) error
}

// NewsItem is a candidate ready to publish.
type NewsItem struct {
	Title   string
	URL     string
	Content string // translated summary, or the untranslated one on failure
}

// Deps are the collaborators of one App. Notifier and Metrics are optional.
type Deps struct {
	Lister     Lister
	Extractor  Extractor
	Translator translate.Translator
	Publisher  Publisher
	Store      storage.Store
	Notifier   Notifier
	Metrics    *metrics.Metrics
}

type Options struct {
	SummaryRatio         float64
	TargetLang           string
	SaveAfterEachPublish bool
}

type App struct {
	deps Deps
	opts Options
	log  *slog.Logger
}

func New(deps Deps, opts Options, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	if opts.SummaryRatio <= 0 {
		opts.SummaryRatio = summary.DefaultRatio
	}
	if opts.TargetLang == "" {
		opts.TargetLang = translate.DefaultTarget
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	return &App{deps: deps, opts: opts, log: log.With("component", "app")}
}

// Run performs one full pass: load the seen-set, build every item, publish
// the unseen ones in listing order and persist the seen-set.
func (a *App) Run(ctx context.Context) (metrics.RunStats, error) {
	start := time.Now()
	log := a.log.With("run_id", uuid.NewString())
	var stats metrics.RunStats

	seen, err := a.deps.Store.Load(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load seen-set: %w", err)
		a.deps.Metrics.SetError(err.Error())
		return stats, err
	}
	log.Info("seen-set loaded", "count", seen.Len())

	items, failures := a.collect(ctx, log)
	stats.Listed = len(items)
	stats.TranslationFailures = failures

	var runErr error
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		if seen.Contains(item.URL) {
			stats.Skipped++
			log.Debug("already published", "url", item.URL)
			continue
		}

		if err := a.deps.Publisher.Publish(ctx, item.Title, item.URL, item.Content); err != nil {
			stats.PublishFailures++
			log.Warn("publish failed", "title", item.Title, "url", item.URL, "error", err)
			continue
		}

		stats.Published++
		seen.Add(item.URL)
		log.Info("published", "title", item.Title, "url", item.URL)

		if a.opts.SaveAfterEachPublish {
			if err := a.deps.Store.Save(ctx, seen); err != nil {
				log.Warn("failed to save seen-set after publish", "url", item.URL, "error", err)
			}
		}

		a.notify(ctx, log, item)
	}

	if err := a.deps.Store.Save(context.WithoutCancel(ctx), seen); err != nil {
		err = fmt.Errorf("failed to save seen-set: %w", err)
		log.Error("store write failed", "error", err)
		runErr = errors.Join(runErr, err)
	}

	stats.Duration = time.Since(start)
	log.Info("run finished",
		"listed", stats.Listed,
		"published", stats.Published,
		"failed", stats.PublishFailures,
		"skipped", stats.Skipped,
		"translation_failures", stats.TranslationFailures,
		"duration", stats.Duration,
	)

	if runErr != nil {
		a.deps.Metrics.SetError(runErr.Error())
		return stats, runErr
	}
	a.deps.Metrics.RecordRun(stats)
	return stats, nil
}

// collect builds a NewsItem for every listed candidate before anything is
// published. It returns the items and the number of failed translations.
func (a *App) collect(ctx context.Context, log *slog.Logger) ([]NewsItem, int) {
	candidates := a.deps.Lister.List(ctx)
	log.Info("candidates listed", "count", len(candidates))

	items := make([]NewsItem, 0, len(candidates))
	failures := 0
	for _, c := range candidates {
		body := a.deps.Extractor.ExtractBody(ctx, c.URL)
		text := summary.HTMLToText(body)
		short := summary.Summarize(text, a.opts.SummaryRatio)

		res := a.deps.Translator.Translate(ctx, short, a.opts.TargetLang)
		if !res.OK() {
			failures++
			log.Warn("translation failed, using original text", "url", c.URL, "error", res.Err)
		}

		items = append(items, NewsItem{Title: c.Title, URL: c.URL, Content: res.Text})
	}
	return items, failures
}

func (a *App) notify(ctx context.Context, log *slog.Logger, item NewsItem) {
	if a.deps.Notifier == nil {
		return
	}
	if err := a.deps.Notifier.NotifyPublished(ctx, item.Title, item.URL); err != nil {
		log.Warn("notification failed", "url", item.URL, "error", err)
	}
}
