package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
)

type OllamaConfig func(client *OllamaClient)

// OllamaClient speaks the Ollama REST API for chat and embeddings.
type OllamaClient struct {
	base url.URL
	http *http.Client
}

var _ Capability = (*OllamaClient)(nil)

const defaultTimeout = 60 * time.Second

func NewOllamaClient(baseUrl string, opts ...OllamaConfig) (*OllamaClient, error) {
	base, err := url.Parse(baseUrl)
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid ollama url", err)
	}

	client := &OllamaClient{
		base: *base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, cfg := range opts {
		cfg(client)
	}

	return client, nil
}

func WithHttpClient(httpClient *http.Client) OllamaConfig {
	return func(client *OllamaClient) {
		client.http = httpClient
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`

	// Format carries the JSON schema for structured output.
	Format json.RawMessage `json:"format,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

type ollamaEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (oc *OllamaClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.Model == "" {
		return nil, apperr.NewValidation("missing model name")
	}

	oReq := ollamaChatRequest{
		Model:  req.Model,
		Stream: false,
	}
	if req.System != "" {
		oReq.Messages = append(oReq.Messages, ollamaMessage{Role: "system", Content: req.System})
	}
	oReq.Messages = append(oReq.Messages, ollamaMessage{Role: "user", Content: req.Prompt})
	if req.Schema != nil {
		oReq.Format = req.Schema.Raw
	}

	var resp ollamaChatResponse
	if err := oc.do(ctx, http.MethodPost, "/api/chat", oReq, &resp); err != nil {
		return nil, err
	}

	if err := checkResponse(req, resp.Message.Content); err != nil {
		return nil, err
	}

	return &Response{Text: resp.Message.Content, Model: resp.Model}, nil
}

func (oc *OllamaClient) Embed(ctx context.Context, req EmbedRequest) ([]float64, error) {
	if req.Text == "" {
		return nil, apperr.NewValidation("missing text to embed")
	}
	if req.Model == "" {
		return nil, apperr.NewValidation("missing model name")
	}

	var resp ollamaEmbedResponse
	if err := oc.do(ctx, http.MethodPost, "/api/embeddings", req, &resp); err != nil {
		return nil, err
	}

	return resp.Embedding, nil
}

func (oc *OllamaClient) do(ctx context.Context, method, path string, reqData, respData any) error {
	reqDataBytes, err := json.Marshal(reqData)
	if err != nil {
		return err
	}

	reqURL := oc.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), bytes.NewReader(reqDataBytes))
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	resp, err := oc.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
