package llm

import (
	"context"
	"errors"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
)

type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

type timeoutEmbedder struct {
	next    Embedder
	timeout time.Duration
}

// WithCompleteTimeout bounds every Complete call. A call that runs past the
// budget fails with *apperr.TimeoutError.
func WithCompleteTimeout(next Completer, timeout time.Duration) Completer {
	if timeout <= 0 {
		return next
	}
	return &timeoutCompleter{next: next, timeout: timeout}
}

func WithEmbedTimeout(next Embedder, timeout time.Duration) Embedder {
	if timeout <= 0 {
		return next
	}
	return &timeoutEmbedder{next: next, timeout: timeout}
}

func (t *timeoutCompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.next.Complete(ctx, req)
	if err != nil {
		return nil, asTimeout(ctx, "complete", t.timeout, err)
	}
	return resp, nil
}

func (t *timeoutEmbedder) Embed(ctx context.Context, req EmbedRequest) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	vec, err := t.next.Embed(ctx, req)
	if err != nil {
		return nil, asTimeout(ctx, "embed", t.timeout, err)
	}
	return vec, nil
}

func asTimeout(ctx context.Context, op string, timeout time.Duration, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.NewTimeout(op, timeout, err)
	}
	return err
}
