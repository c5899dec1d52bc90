package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openaiSystemPrompt = "You are a technical writer producing README documentation. " +
	"Respond with markdown body text only."

// OpenAIGenerator implements Generator using the official openai-go SDK
// (chat completions).
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator builds a generator for the given model. baseURL is
// optional and supports OpenAI-compatible endpoints.
func NewOpenAIGenerator(apiKey, baseURL, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}
	if model == "" {
		return nil, errors.New("model name is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIGenerator{client: openai.NewClient(opts...), model: model}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openaiSystemPrompt),
			openai.UserMessage(prompt),
		},
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(opts.TopP)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusTooManyRequests, http.StatusServiceUnavailable:
				return "", fmt.Errorf("%w: %v", ErrResourceExhausted, err)
			}
		}
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) ModelID() string {
	return "openai/" + g.model
}
