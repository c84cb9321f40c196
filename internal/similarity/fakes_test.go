package similarity

import (
	"context"
	"fmt"
	"sync"

	"github.com/Priyanshi1908/openQA.ai/internal/llm"
)

type completerFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)

func (f completerFunc) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func staticCompleter(text string) completerFunc {
	return func(context.Context, llm.Request) (*llm.Response, error) {
		return &llm.Response{Text: text}, nil
	}
}

// mapEmbedder returns fixed vectors per text.
type mapEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	calls   []llm.EmbedRequest
}

func (m *mapEmbedder) Embed(_ context.Context, req llm.EmbedRequest) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)

	v, ok := m.vectors[req.Text]
	if !ok {
		return nil, fmt.Errorf("embedding service unreachable")
	}
	return v, nil
}
