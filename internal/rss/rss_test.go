package rss

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/uscisnews/internal/scraper"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>USCIS News Releases</title>
  <link>https://www.uscis.gov/newsroom/news-releases</link>
  <item>
    <title> USCIS Announces New Fee Schedule </title>
    <link>https://www.uscis.gov/newsroom/news-releases/fees</link>
  </item>
  <item>
    <title>No link item</title>
  </item>
  <item>
    <title>Second Release</title>
    <link>https://www.uscis.gov/newsroom/news-releases/second</link>
  </item>
</channel>
</rss>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFeedLister_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	got := NewFeedLister(srv.URL, "test-agent", 0, discardLogger()).List(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, scraper.Candidate{
		Title: "USCIS Announces New Fee Schedule",
		URL:   "https://www.uscis.gov/newsroom/news-releases/fees",
	}, got[0])
	assert.Equal(t, "https://www.uscis.gov/newsroom/news-releases/second", got[1].URL)
}

func TestFeedLister_HTTPErrorIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	got := NewFeedLister(srv.URL, "", 0, discardLogger()).List(context.Background())

	assert.Empty(t, got)
}
