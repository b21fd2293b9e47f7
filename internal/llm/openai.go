package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"compostbot/internal/domain"
)

// Client talks to the OpenAI API for both embeddings and chat completions.
type Client struct {
	api         openai.Client
	embedModel  string
	chatModel   string
	dimension   int
	temperature float64
	maxTokens   int
}

// Config configures the OpenAI client. The API key is read from the
// environment variable named by APIKeyEnv.
type Config struct {
	APIKeyEnv   string
	BaseURL     string
	EmbedModel  string
	ChatModel   string
	Dimension   int
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewClient creates a provider client. A missing API key is an error so the
// process can refuse to start instead of failing per request.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "text-embedding-3-small"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-3.5-turbo"
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = 1536
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 100
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api:         openai.NewClient(opts...),
		embedModel:  cfg.EmbedModel,
		chatModel:   cfg.ChatModel,
		dimension:   cfg.Dimension,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Dimension returns the configured embedding dimension.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns one embedding vector per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.embedModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding provider returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if len(v) != c.dimension {
			return nil, fmt.Errorf("embedding %d has dimension %d, expected %d", i, len(v), c.dimension)
		}
	}
	return vectors, nil
}

// Complete runs a chat completion over the given messages.
func (c *Client) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.chatModel),
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	}
	for _, m := range messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
