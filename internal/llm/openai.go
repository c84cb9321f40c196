package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

type OpenAIOption func(cfg *openai.ClientConfig)

// OpenAIClient talks to the OpenAI chat completion and embedding APIs.
type OpenAIClient struct {
	client *openai.Client
}

var _ Capability = (*OpenAIClient)(nil)

func NewOpenAIClient(cfg OpenAIConfig, opts ...OpenAIOption) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, apperr.NewConfig("OpenAI API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Timeout: defaultTimeout}

	for _, opt := range opts {
		opt(&config)
	}

	return &OpenAIClient{client: openai.NewClientWithConfig(config)}, nil
}

func WithOpenAIHttpClient(httpClient *http.Client) OpenAIOption {
	return func(cfg *openai.ClientConfig) {
		cfg.HTTPClient = httpClient
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.Model == "" {
		return nil, apperr.NewValidation("missing model name")
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	}
	if req.Schema != nil {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: req.Schema.Raw,
				Strict: true,
			},
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("create chat completion: no choices returned")
	}

	text := resp.Choices[0].Message.Content
	slog.Debug("Chat completion finished", "model", resp.Model, "tokens", resp.Usage.TotalTokens)

	if err := checkResponse(req, text); err != nil {
		return nil, err
	}

	return &Response{Text: text, Model: resp.Model}, nil
}

func (c *OpenAIClient) Embed(ctx context.Context, req EmbedRequest) ([]float64, error) {
	if req.Text == "" {
		return nil, apperr.NewValidation("missing text to embed")
	}
	if req.Model == "" {
		return nil, apperr.NewValidation("missing model name")
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{req.Text},
		Model: openai.EmbeddingModel(req.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("create embeddings: no embedding returned")
	}

	src := resp.Data[0].Embedding
	vec := make([]float64, len(src))
	for i, v := range src {
		vec[i] = float64(v)
	}

	return vec, nil
}
