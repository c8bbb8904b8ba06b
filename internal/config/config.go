// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned when any WordPress setting is unset.
var ErrMissingCredentials = errors.New("WP_SITE_URL, WP_USERNAME and WP_APP_PASSWORD must be set")

type Config struct {
	// WordPress settings
	SiteURL     string
	Username    string
	AppPassword string

	// Source settings
	ListingURL          string
	BaseURL             string
	ListingFeedURL      string // RSS/Atom listing used instead of the HTML page when set
	SourceConfigPath    string
	ReadabilityFallback bool
	UserAgent           string
	HTTPTimeout         time.Duration // 0 means no timeout

	// Summary/translation settings
	SummaryRatio        float64
	TargetLang          string
	Translator          string // google | gemini | openai
	GeminiAPIKey        string
	OpenAIAPIKey        string
	TranslationCacheTTL time.Duration

	// Seen-set settings
	StoreDriver          string // file | postgres
	PostedFile           string
	DatabaseURL          string
	SaveAfterEachPublish bool

	// Telegram notifications (optional)
	TelegramToken  string
	TelegramChatID string

	// App settings
	RunInterval      time.Duration // 0 means run once
	EnableMonitoring bool
	MonitoringPort   string
	Debug            bool
	LogLevel         string
}

// Load reads .env (if present) and the process environment. The returned
// error wraps ErrMissingCredentials when a required WordPress value is absent.
func Load() (*Config, error) {
	// .env is optional; variables already in the environment win
	_ = godotenv.Load()

	cfg := &Config{
		ListingURL:          "https://www.uscis.gov/newsroom/news-releases",
		BaseURL:             "https://www.uscis.gov",
		UserAgent:           "Mozilla/5.0 (compatible; uscisnews/1.0)",
		SummaryRatio:        0.3,
		TargetLang:          "zh-TW",
		Translator:          "google",
		TranslationCacheTTL: 24 * time.Hour,
		StoreDriver:         "file",
		PostedFile:          "posted.json",
		MonitoringPort:      "8080",
		LogLevel:            "info",
	}

	cfg.SiteURL = strings.TrimSpace(os.Getenv("WP_SITE_URL"))
	cfg.Username = os.Getenv("WP_USERNAME")
	cfg.AppPassword = os.Getenv("WP_APP_PASSWORD")

	cfg.ListingURL = getEnvOrDefault("LISTING_URL", cfg.ListingURL)
	cfg.BaseURL = getEnvOrDefault("BASE_URL", cfg.BaseURL)
	cfg.ListingFeedURL = os.Getenv("LISTING_FEED_URL")
	cfg.SourceConfigPath = os.Getenv("SOURCE_CONFIG")
	cfg.ReadabilityFallback = getEnvBool("READABILITY_FALLBACK")
	cfg.UserAgent = getEnvOrDefault("USER_AGENT", cfg.UserAgent)
	cfg.HTTPTimeout = getEnvDurationOrDefault("HTTP_TIMEOUT", 0)

	if v := os.Getenv("SUMMARY_RATIO"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SummaryRatio = val
		}
	}
	cfg.TargetLang = getEnvOrDefault("TARGET_LANG", cfg.TargetLang)
	cfg.Translator = strings.ToLower(getEnvOrDefault("TRANSLATOR", cfg.Translator))
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.TranslationCacheTTL = getEnvDurationOrDefault("TRANSLATION_CACHE_TTL", cfg.TranslationCacheTTL)

	cfg.StoreDriver = strings.ToLower(getEnvOrDefault("STORE_DRIVER", cfg.StoreDriver))
	cfg.PostedFile = getEnvOrDefault("POSTED_FILE", cfg.PostedFile)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SaveAfterEachPublish = getEnvBool("SAVE_AFTER_EACH_PUBLISH")

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	cfg.RunInterval = getEnvDurationOrDefault("RUN_INTERVAL", 0)
	cfg.EnableMonitoring = getEnvBool("ENABLE_HTTP_MONITORING")
	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)
	cfg.Debug = getEnvBool("DEBUG")
	cfg.LogLevel = strings.ToLower(getEnvOrDefault("LOG_LEVEL", cfg.LogLevel))

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}

// Validate checks required values first so a missing credential is always
// reported as ErrMissingCredentials.
func (c *Config) Validate() error {
	if c.SiteURL == "" || c.Username == "" || c.AppPassword == "" {
		return ErrMissingCredentials
	}
	if _, err := url.ParseRequestURI(c.SiteURL); err != nil {
		return fmt.Errorf("invalid WP_SITE_URL %q: %w", c.SiteURL, err)
	}
	if c.SummaryRatio <= 0 || c.SummaryRatio > 1 {
		return fmt.Errorf("SUMMARY_RATIO must be in (0, 1], got %v", c.SummaryRatio)
	}
	switch c.Translator {
	case "google":
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when TRANSLATOR=gemini")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when TRANSLATOR=openai")
		}
	default:
		return fmt.Errorf("TRANSLATOR must be 'google', 'gemini' or 'openai'")
	}
	switch c.StoreDriver {
	case "file":
		if c.PostedFile == "" {
			return fmt.Errorf("POSTED_FILE cannot be empty")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be 'file' or 'postgres'")
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}

// NotifyEnabled reports whether Telegram notifications are configured.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}
