package llm

import (
	"context"
)

// Request is a single-turn completion. When Schema is set the backend asks for
// structured output and the returned text is validated against it.
type Request struct {
	Model  string
	System string
	Prompt string
	Schema *Schema
}

type Response struct {
	Text  string
	Model string
}

type EmbedRequest struct {
	Model string `json:"model"`
	Text  string `json:"prompt"`
}

type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

type Embedder interface {
	Embed(ctx context.Context, req EmbedRequest) ([]float64, error)
}

// Capability is a backend that can both complete and embed.
type Capability interface {
	Completer
	Embedder
}
