package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiGenerator implements Generator using Google's GenAI SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key missing; set GEMINI_API_KEY")
	}
	if model == "" {
		return nil, errors.New("model name is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(opts.TopP))
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case http.StatusTooManyRequests, http.StatusServiceUnavailable:
				return "", fmt.Errorf("%w: %v", ErrResourceExhausted, err)
			}
		}
		return "", fmt.Errorf("gemini completion: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

func (g *GeminiGenerator) ModelID() string {
	return "gemini/" + g.model
}
