package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-1.5-flash"

// generator produces a completion for a prompt. Gemini and tests implement it.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Gemini translates through Google's Gemini API.
type Gemini struct {
	client *genai.Client
	gen    generator
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g := &Gemini{client: client}
	g.gen = &geminiGenerator{model: client.GenerativeModel(geminiModel)}
	return g, nil
}

func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func (g *Gemini) Translate(ctx context.Context, text, target string) Result {
	return translateWithGenerator(ctx, g.gen, text, target)
}

func translateWithGenerator(ctx context.Context, gen generator, text, target string) Result {
	if strings.TrimSpace(text) == "" {
		return Translated(text)
	}
	out, err := gen.generate(ctx, buildPrompt(text, target))
	if err != nil {
		return Failed(text, err)
	}
	out = SanitizeAIText(out)
	if out == "" {
		return Failed(text, ErrEmptyResponse)
	}
	return Translated(out)
}

type geminiGenerator struct {
	model *genai.GenerativeModel
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}
