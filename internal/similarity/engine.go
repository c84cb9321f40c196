package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/internal/llm"
)

const DefaultEmbeddingModel = "qwen2:1.5b"

// Scorer produces a SimilarityResult for one candidate/reference pair.
type Scorer interface {
	Compare(ctx context.Context, question, candidate, reference string) domain.SimilarityResult
}

// Engine computes every similarity signal. Cosine and judge run concurrently
// and a failure in one signal never stops the others.
type Engine struct {
	embedder   llm.Embedder
	embedModel string
	judge      *Judge
}

var _ Scorer = (*Engine)(nil)

type EngineOption func(*Engine)

func WithEmbeddingModel(model string) EngineOption {
	return func(e *Engine) {
		e.embedModel = model
	}
}

func NewEngine(embedder llm.Embedder, judge *Judge, opts ...EngineOption) *Engine {
	e := &Engine{
		embedder:   embedder,
		embedModel: DefaultEmbeddingModel,
		judge:      judge,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Compare(ctx context.Context, question, candidate, reference string) domain.SimilarityResult {
	res := domain.SimilarityResult{
		Exact:    Exact(candidate, reference),
		Includes: Includes(candidate, reference),
		Fuzzy:    Fuzzy(candidate, reference),
	}

	var (
		wg        sync.WaitGroup
		cosine    float64
		cosineErr error
		verdict   domain.JudgeVerdict
		judgeErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cosine, cosineErr = e.cosine(ctx, candidate, reference)
	}()
	go func() {
		defer wg.Done()
		verdict, judgeErr = e.judge.Evaluate(ctx, question, candidate, reference)
	}()
	wg.Wait()

	if cosineErr != nil {
		res.Errors = withError(res.Errors, domain.SignalCosine, cosineErr)
		slog.Warn("Cosine signal failed", "question", question, "error", cosineErr)
	} else {
		res.Cosine = cosine
	}

	if judgeErr != nil {
		res.Errors = withError(res.Errors, domain.SignalJudge, judgeErr)
		slog.Warn("Judge signal failed", "question", question, "error", judgeErr)
	} else {
		res.Judge = verdict
	}

	return res
}

func (e *Engine) cosine(ctx context.Context, candidate, reference string) (float64, error) {
	a, err := e.embedder.Embed(ctx, llm.EmbedRequest{Model: e.embedModel, Text: candidate})
	if err != nil {
		return 0, apperr.NewEmbeddingWrap("embed candidate", err)
	}
	b, err := e.embedder.Embed(ctx, llm.EmbedRequest{Model: e.embedModel, Text: reference})
	if err != nil {
		return 0, apperr.NewEmbeddingWrap("embed reference", err)
	}

	v, err := Cosine(a, b)
	if err != nil {
		return 0, fmt.Errorf("cosine similarity: %w", err)
	}
	return v, nil
}

func withError(errs map[domain.Signal]error, s domain.Signal, err error) map[domain.Signal]error {
	if errs == nil {
		errs = make(map[domain.Signal]error, 1)
	}
	errs[s] = err
	return errs
}
