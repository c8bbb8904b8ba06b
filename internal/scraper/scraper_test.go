package scraper

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/uscisnews/internal/source"
)

const listingHTML = `<html><body>
<div class="view-content">
  <div class="views-row">
    <span class="field-content"><a href="/newsroom/news-releases/first" hreflang="en"> USCIS Updates  <em>Fee</em> Rule </a></span>
  </div>
  <div class="views-row">
    <span class="field-content"><a href="/es/noticias/segundo" hreflang="es">Spanish version</a></span>
  </div>
  <div class="views-row">
    <span class="field-content"><a href="https://other.example/second" hreflang="en">Second</a></span>
  </div>
  <div class="sidebar">
    <span class="field-content"><a href="/not-a-row" hreflang="en">Outside row</a></span>
  </div>
  <div class="views-row">
    <span class="field-content"><a hreflang="en">No href</a></span>
  </div>
</div>
</body></html>`

const articleHTML = `<html><body>
<h1>Title</h1>
<div class="field field--name-body field--type-text-with-summary"><p>First. <a href="https://x">Link</a></p><p>Second.</p></div>
<div class="field--name-body"><p>Ignored second container.</p></div>
</body></html>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScraper(srvURL string, opts Options) *Scraper {
	p := source.Default(srvURL+"/newsroom/news-releases", "https://www.uscis.gov")
	return New(p, opts, testLogger())
}

func TestParseListing_SelectorAndOrder(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	require.NoError(t, err)

	got := ParseListing(doc, source.DefaultListingSelector, "https://www.uscis.gov")

	assert.Equal(t, []Candidate{
		{Title: "USCIS UpdatesFeeRule", URL: "https://www.uscis.gov/newsroom/news-releases/first"},
		{Title: "Second", URL: "https://other.example/second"},
	}, got)
}

func TestScraper_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/newsroom/news-releases", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	s := newTestScraper(srv.URL, Options{UserAgent: "test-agent"})
	got := s.List(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, "https://www.uscis.gov/newsroom/news-releases/first", got[0].URL)
}

func TestScraper_ListNon200IsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	got := newTestScraper(srv.URL, Options{}).List(context.Background())

	assert.Empty(t, got)
}

func TestScraper_ExtractBodyFirstContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	got := newTestScraper(srv.URL, Options{}).ExtractBody(context.Background(), srv.URL+"/a")

	assert.Equal(t, `<p>First. <a href="https://x">Link</a></p><p>Second.</p>`, got)
}

func TestScraper_ExtractBodyNon200IsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	got := newTestScraper(srv.URL, Options{}).ExtractBody(context.Background(), srv.URL+"/a")

	assert.Equal(t, "", got)
}

func TestScraper_ExtractBodyMissingContainer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><article><p>No body div here.</p></article></body></html>`))
	}))
	defer srv.Close()

	got := newTestScraper(srv.URL, Options{}).ExtractBody(context.Background(), srv.URL+"/a")

	assert.Equal(t, "", got)
}

func TestScraper_ExtractBodyReadabilityFallback(t *testing.T) {
	paragraph := strings.Repeat("U.S. Citizenship and Immigration Services announced a new policy today for applicants. ", 8)
	page := `<html><head><title>Release</title></head><body><nav>Menu</nav><article><h1>Release</h1><p>` +
		paragraph + `</p><p>` + paragraph + `</p></article><footer>Footer</footer></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	got := newTestScraper(srv.URL, Options{ReadabilityFallback: true}).ExtractBody(context.Background(), srv.URL+"/a")

	assert.Contains(t, got, "announced a new policy")
}

func TestScraper_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := newTestScraper(srv.URL, Options{}).List(ctx)

	assert.Empty(t, got)
}

func TestScraper_DecodesDeclaredCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Café." in Latin-1
		w.Write([]byte("<div class=\"field--name-body\"><p>Caf\xe9.</p></div>"))
	}))
	defer srv.Close()

	got := newTestScraper(srv.URL, Options{}).ExtractBody(context.Background(), srv.URL+"/a")

	assert.Equal(t, "<p>Café.</p>", got)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://www.uscis.gov/a", joinURL("https://www.uscis.gov", "/a"))
	assert.Equal(t, "https://x.test/b", joinURL("https://www.uscis.gov", "https://x.test/b"))
}
