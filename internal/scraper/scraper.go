package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/deusflow/uscisnews/internal/source"
)

// Candidate is one news release found on the listing page.
type Candidate struct {
	Title string
	URL   string
}

// Options tunes the HTTP side of the scraper.
type Options struct {
	Timeout             time.Duration // 0 means no timeout
	UserAgent           string
	ReadabilityFallback bool
}

// Scraper fetches the listing page and article bodies for one source.
type Scraper struct {
	client  *http.Client
	profile source.Profile
	opts    Options
	log     *slog.Logger
}

func New(profile source.Profile, opts Options, log *slog.Logger) *Scraper {
	return &Scraper{
		client:  &http.Client{Timeout: opts.Timeout},
		profile: profile,
		opts:    opts,
		log:     log.With(slog.String("component", "scraper")),
	}
}

// StatusError is returned by fetch when the server answers with anything but 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d for url %s", e.StatusCode, e.URL)
}

// fetch GETs pageURL and returns the body decoded to UTF-8.
func (s *Scraper) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for url %s: %w", pageURL, err)
	}
	if s.opts.UserAgent != "" {
		req.Header.Set("User-Agent", s.opts.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		utf8Reader = resp.Body
	}

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", pageURL, err)
	}
	return string(body), nil
}

// List returns the listing candidates in document order. Any failure is
// logged and yields an empty list.
func (s *Scraper) List(ctx context.Context) []Candidate {
	log := s.log.With(slog.String("url", s.profile.ListingURL))

	body, err := s.fetch(ctx, s.profile.ListingURL)
	if err != nil {
		log.Warn("Failed to retrieve listing page", slog.Any("error", err))
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		log.Warn("Failed to parse listing page", slog.Any("error", err))
		return nil
	}

	candidates := ParseListing(doc, s.profile.ListingSelector, s.profile.BaseURL)
	log.Info("Listing fetched", slog.Int("count", len(candidates)))
	return candidates
}

// ParseListing extracts (title, url) pairs from anchors matching selector.
// Anchors without href are skipped.
func ParseListing(doc *goquery.Document, selector, baseURL string) []Candidate {
	var out []Candidate
	doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		out = append(out, Candidate{
			Title: strippedText(a),
			URL:   joinURL(baseURL, href),
		})
	})
	return out
}

// joinURL prefixes relative hrefs with the site base URL. Absolute hrefs are
// kept unchanged.
func joinURL(baseURL, href string) string {
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		return href
	}
	return baseURL + href
}

// strippedText concatenates every descendant text node after trimming each
// one, so "<a> New <b>rule</b> </a>" gives "Newrule".
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.TextNode {
				b.WriteString(strings.TrimSpace(n.Data))
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(n)
	}
	return b.String()
}

// ExtractBody returns the inner markup of the article body container, or ""
// when the page cannot be fetched or has no container.
func (s *Scraper) ExtractBody(ctx context.Context, articleURL string) string {
	log := s.log.With(slog.String("url", articleURL))

	body, err := s.fetch(ctx, articleURL)
	if err != nil {
		log.Warn("Failed to retrieve article", slog.Any("error", err))
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		log.Warn("Failed to parse article", slog.Any("error", err))
		return ""
	}

	container := doc.Find(s.profile.BodySelector).First()
	if container.Length() > 0 {
		markup, err := container.Html()
		if err != nil {
			log.Warn("Failed to render article body", slog.Any("error", err))
			return ""
		}
		return markup
	}

	if !s.opts.ReadabilityFallback {
		log.Debug("Article body container not found")
		return ""
	}
	return s.readabilityBody(body, articleURL)
}

func (s *Scraper) readabilityBody(rawHTML, articleURL string) string {
	parsedURL, err := url.Parse(articleURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		s.log.Warn("Readability extraction failed", slog.String("url", articleURL), slog.Any("error", err))
		return ""
	}
	s.log.Debug("Article body taken from readability", slog.String("url", articleURL))
	return article.Content
}
