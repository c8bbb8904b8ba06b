package metrics

import (
	"sync"
	"time"
)

// RunStats is the outcome of one pipeline run.
type RunStats struct {
	Listed              int
	Published           int
	PublishFailures     int
	Skipped             int
	TranslationFailures int
	Duration            time.Duration
}

type Metrics struct {
	mu sync.RWMutex

	// Counters
	Runs                int64
	ItemsListed         int64
	PostsPublished      int64
	PublishFailures     int64
	DuplicatesSkipped   int64
	TranslationFailures int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

// RecordRun adds a finished run to the totals and marks the service healthy.
func (m *Metrics) RecordRun(s RunStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Runs++
	m.ItemsListed += int64(s.Listed)
	m.PostsPublished += int64(s.Published)
	m.PublishFailures += int64(s.PublishFailures)
	m.DuplicatesSkipped += int64(s.Skipped)
	m.TranslationFailures += int64(s.TranslationFailures)

	m.LastProcessingTime = s.Duration
	m.TotalProcessingTime += s.Duration
	m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.Runs)

	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"runs":                       m.Runs,
		"items_listed":               m.ItemsListed,
		"posts_published":            m.PostsPublished,
		"publish_failures":           m.PublishFailures,
		"duplicates_skipped":         m.DuplicatesSkipped,
		"translation_failures":       m.TranslationFailures,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
