package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTarget is the locale summaries are translated into.
const DefaultTarget = "zh-TW"

// MaxGoogleChars is the longest input the public endpoint accepts in one call.
const MaxGoogleChars = 5000

var (
	ErrTooLong       = errors.New("text exceeds translation length limit")
	ErrEmptyResponse = errors.New("empty translation response")
)

// Result is the outcome of one translation. A nil Err means the text was
// translated; otherwise Text holds the original input unchanged and the
// caller decides whether to use it.
type Result struct {
	Text string
	Err  error
}

func Translated(text string) Result {
	return Result{Text: text}
}

func Failed(original string, cause error) Result {
	return Result{Text: original, Err: cause}
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Translator translates text into target, detecting the source language.
type Translator interface {
	Translate(ctx context.Context, text, target string) Result
}

// Google uses the free translate.googleapis.com "gtx" endpoint.
type Google struct {
	endpoint string
	client   *http.Client
}

func NewGoogle(timeout time.Duration) *Google {
	return &Google{
		endpoint: "https://translate.googleapis.com/translate_a/single",
		client:   &http.Client{Timeout: timeout},
	}
}

func (g *Google) Translate(ctx context.Context, text, target string) Result {
	if strings.TrimSpace(text) == "" {
		return Translated(text)
	}
	if utf8.RuneCountInString(text) > MaxGoogleChars {
		return Failed(text, fmt.Errorf("%w: %d > %d", ErrTooLong, utf8.RuneCountInString(text), MaxGoogleChars))
	}

	translated, err := g.translate(ctx, text, target)
	if err != nil {
		return Failed(text, err)
	}
	return Translated(translated)
}

func (g *Google) translate(ctx context.Context, text, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create translate request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google translate returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	translation, err := parseGoogleTranslateResponse(body)
	if err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	return translation, nil
}

// parseGoogleTranslateResponse joins the translated chunks of a gtx reply:
// [[["translated","source",...],...],...]
func parseGoogleTranslateResponse(body []byte) (string, error) {
	var response []interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	if len(response) == 0 {
		return "", ErrEmptyResponse
	}

	translations, ok := response[0].([]interface{})
	if !ok {
		return "", errors.New("unexpected response format")
	}

	var result strings.Builder
	for _, translation := range translations {
		if parts, ok := translation.([]interface{}); ok && len(parts) > 0 {
			if translatedText, ok := parts[0].(string); ok {
				result.WriteString(translatedText)
			}
		}
	}

	if result.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return result.String(), nil
}

// New builds the backend named by provider.
func New(provider, apiKey string, timeout time.Duration) (Translator, error) {
	switch provider {
	case "", "google":
		return NewGoogle(timeout), nil
	case "gemini":
		return NewGemini(context.Background(), apiKey)
	case "openai":
		return NewOpenAI(apiKey, ""), nil
	default:
		return nil, fmt.Errorf("unknown translator %q", provider)
	}
}

var languageNames = map[string]string{
	"zh-TW": "Traditional Chinese (Taiwan)",
	"zh-CN": "Simplified Chinese",
	"en":    "English",
	"es":    "Spanish",
	"ja":    "Japanese",
	"ko":    "Korean",
	"vi":    "Vietnamese",
	"uk":    "Ukrainian",
}

// languageName returns a prompt-friendly name for a locale code.
func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

func buildPrompt(text, target string) string {
	return fmt.Sprintf(`Translate the following news text to %s.
Detect the source language automatically.
Keep names of people, agencies and forms as they are.
Return only the translation, without comments or notes.

Text to translate:
%s`, languageName(target), text)
}
