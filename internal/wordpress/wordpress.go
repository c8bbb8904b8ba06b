package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const postsPath = "/wp-json/wp/v2/posts"

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 2048

const articleStyle = `<style>
.uscis-article {
	font-family: "Arial", sans-serif;
	font-size: 16px;
	line-height: 1.8;
	color: #333;
	background-color: #f9f9f9;
	padding: 16px;
	border-radius: 6px;
	border: 1px solid #ddd;
}
.uscis-article a {
	color: #0073aa;
	text-decoration: none;
}
.uscis-article a:hover {
	text-decoration: underline;
}
.uscis-note {
	color: #777;
	font-size: 14px;
	margin-top: 12px;
}
</style>`

// PublishError is returned when WordPress answers with anything but 201.
type PublishError struct {
	StatusCode int
	Body       string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("wordpress returned status %d: %s", e.StatusCode, e.Body)
}

type post struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// Publisher creates posts through the WordPress REST API using an
// application password.
type Publisher struct {
	endpoint string
	username string
	password string
	client   *http.Client
	log      *slog.Logger
}

func NewPublisher(siteURL, username, appPassword string, timeout time.Duration, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		endpoint: strings.TrimRight(siteURL, "/") + postsPath,
		username: username,
		password: appPassword,
		client:   &http.Client{Timeout: timeout},
		log:      log.With("component", "wordpress"),
	}
}

// Endpoint is the posts URL requests go to.
func (p *Publisher) Endpoint() string {
	return p.endpoint
}

// BuildContent renders the post body: the translated summary followed by a
// note linking back to the source article. The summary and URL are
// HTML-escaped, so markup in the text shows up literally in the post.
func BuildContent(content, sourceURL string) string {
	u := html.EscapeString(sourceURL)

	var b strings.Builder
	b.WriteString(articleStyle)
	b.WriteString("\n<div class=\"uscis-article\">\n")
	fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(content))
	b.WriteString("<p class=\"uscis-note\"><strong>新聞來源：</strong>\n")
	fmt.Fprintf(&b, "<a href=\"%s\" target=\"_blank\" rel=\"noopener noreferrer\">%s</a><br/>\n", u, u)
	b.WriteString("本文轉自美國移民局（USCIS）官方最新資訊，僅供參考。</p>\n")
	b.WriteString("</div>")
	return b.String()
}

// Publish creates one published post. Only a 201 response counts as success.
func (p *Publisher) Publish(ctx context.Context, title, sourceURL, content string) error {
	body, err := json.Marshal(post{
		Title:   title,
		Content: BuildContent(content, sourceURL),
		Status:  "publish",
	})
	if err != nil {
		return fmt.Errorf("failed to encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(p.username, p.password)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			p.log.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &PublishError{StatusCode: resp.StatusCode, Body: string(msg)}
	}

	p.log.Info("post published", "title", title, "url", sourceURL)
	return nil
}
