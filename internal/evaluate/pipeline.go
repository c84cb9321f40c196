package evaluate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/internal/qagen"
	"github.com/Priyanshi1908/openQA.ai/internal/qastore"
	"github.com/Priyanshi1908/openQA.ai/internal/segment"
)

// Pipeline runs segmentation, QA generation, the JSONL round trip and evaluation.
type Pipeline struct {
	batchSize     int
	generator     *qagen.Generator
	runner        *Runner
	qaPath        string
	skipMalformed bool
	onGenerated   func(*qagen.Result)
}

type PipelineOption func(*Pipeline)

// WithQAFile persists the generated pairs to path and evaluates what is read back.
func WithQAFile(path string) PipelineOption {
	return func(p *Pipeline) {
		p.qaPath = path
	}
}

func WithSkipMalformed() PipelineOption {
	return func(p *Pipeline) {
		p.skipMalformed = true
	}
}

// OnGenerated registers fn to receive the generation result before evaluation starts.
func OnGenerated(fn func(*qagen.Result)) PipelineOption {
	return func(p *Pipeline) {
		p.onGenerated = fn
	}
}

type PipelineResult struct {
	Generation *qagen.Result
	Pairs      []domain.QAPair
	Evaluation *Result
}

// GenerationFailures lists the failed generation batches, or nil.
func (r *PipelineResult) GenerationFailures() []string {
	if r == nil || r.Generation == nil || len(r.Generation.Errors) == 0 {
		return nil
	}
	return r.Generation.Failures()
}

func NewPipeline(batchSize int, generator *qagen.Generator, runner *Runner, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		batchSize: batchSize,
		generator: generator,
		runner:    runner,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Run(ctx context.Context, pages []string) (*PipelineResult, error) {
	start := time.Now()

	batches, err := segment.Segment(pages, p.batchSize)
	if err != nil {
		return nil, err
	}
	slog.Info("Segmented document", "pages", len(pages), "batches", len(batches), "batch_size", p.batchSize)

	gen, err := p.generator.Generate(ctx, batches)
	if err != nil {
		return nil, err
	}
	if genErr := gen.Err(); genErr != nil {
		slog.Warn("QA generation finished with failed batches",
			"failed", len(gen.Errors),
			"batches", len(batches),
			"error", genErr)
	}
	if p.onGenerated != nil {
		p.onGenerated(gen)
	}

	pairs, err := p.roundTrip(gen.Pairs())
	if err != nil {
		return nil, err
	}

	eval, err := p.runner.Run(ctx, pairs)
	out := &PipelineResult{Generation: gen, Pairs: pairs, Evaluation: eval}
	if err != nil {
		return out, err
	}

	slog.Info("Pipeline finished", "pairs", len(pairs), "took", time.Since(start))
	return out, nil
}

func (p *Pipeline) roundTrip(pairs []domain.QAPair) ([]domain.QAPair, error) {
	var opts []qastore.ReadOption
	if p.skipMalformed {
		opts = append(opts, qastore.SkipMalformed(nil))
	}

	if p.qaPath != "" {
		if err := qastore.WriteFile(p.qaPath, pairs); err != nil {
			return nil, err
		}
		return qastore.ReadFile(p.qaPath, opts...)
	}

	var buf bytes.Buffer
	if err := qastore.Write(&buf, pairs); err != nil {
		return nil, fmt.Errorf("write qa records: %w", err)
	}
	return qastore.Read(&buf, opts...)
}
