package qagen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/internal/llm"
	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
)

// Generator turns batches into QA pairs, one structured completion per batch.
type Generator struct {
	completer llm.Completer
	config    Config
}

// Result holds one QA list per input batch, in input order. A failed batch
// leaves an empty list at its position and an entry in Errors.
type Result struct {
	Lists  [][]domain.QAPair
	Errors []*apperr.GenerationError
}

func (r *Result) Pairs() []domain.QAPair {
	return domain.Flatten(r.Lists)
}

// Err summarises every batch failure, or returns nil.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, e := range r.Errors {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

// Failures returns one message per failed batch, in batch order.
func (r *Result) Failures() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}

func New(completer llm.Completer, cfg Config) *Generator {
	return &Generator{
		completer: completer,
		config:    cfg,
	}
}

type batchTask struct {
	ctx   context.Context
	batch domain.Batch
	lists [][]domain.QAPair
	errs  []error
	wg    *sync.WaitGroup
}

// Generate fans batches out over a pool of MaxWorkers goroutines and
// reassembles the results by batch position. Only configuration problems are
// returned as an error; batch failures are collected in the Result.
func (g *Generator) Generate(ctx context.Context, batches []domain.Batch) (*Result, error) {
	if g.config.MaxWorkers <= 0 {
		return nil, apperr.NewConfigf("max workers must be positive, got %d", g.config.MaxWorkers)
	}
	if g.config.Model == "" {
		return nil, apperr.NewConfig("generation model is required")
	}

	lists := make([][]domain.QAPair, len(batches))
	errs := make([]error, len(batches))
	var wg sync.WaitGroup

	pool, err := ants.NewPoolWithFunc(g.config.MaxWorkers, func(args any) {
		task, ok := args.(*batchTask)
		if !ok {
			panic("qa generation pool args type error")
		}
		defer task.wg.Done()
		task.lists[task.batch.Index], task.errs[task.batch.Index] = g.generateBatch(task.ctx, task.batch)
	})
	if err != nil {
		return nil, fmt.Errorf("create qa generation pool: %w", err)
	}
	defer pool.Release()

	start := time.Now()
	slog.Info("Generating QA pairs", "batches", len(batches), "workers", g.config.MaxWorkers, "model", g.config.Model)

	for i, b := range batches {
		b.Index = i
		wg.Add(1)
		task := &batchTask{ctx: ctx, batch: b, lists: lists, errs: errs, wg: &wg}
		if err := pool.Invoke(task); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit batch: %w", err)
		}
	}
	wg.Wait()

	res := &Result{Lists: lists}
	total := 0
	for i, err := range errs {
		if err != nil {
			genErr := apperr.NewGeneration(i, err)
			slog.Warn("QA generation failed for batch", "batch", i, "error", err)
			res.Errors = append(res.Errors, genErr)
			lists[i] = []domain.QAPair{}
			continue
		}
		total += len(lists[i])
	}

	slog.Info("QA generation finished",
		"batches", len(batches),
		"failed", len(res.Errors),
		"pairs", total,
		"took", time.Since(start))

	return res, nil
}

func (g *Generator) generateBatch(ctx context.Context, b domain.Batch) ([]domain.QAPair, error) {
	resp, err := g.completer.Complete(ctx, llm.Request{
		Model:  g.config.Model,
		Prompt: fmt.Sprintf(promptTemplate, b.Text),
		Schema: qaSetSchema,
	})
	if err != nil {
		return nil, err
	}

	var set qaSet
	if err := qaSetSchema.Decode([]byte(resp.Text), &set); err != nil {
		return nil, err
	}

	slog.Debug("Generated QA pairs for batch", "batch", b.Index, "pairs", len(set.Questions))
	return set.Questions, nil
}
