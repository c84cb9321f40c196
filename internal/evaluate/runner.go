package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/internal/report"
	"github.com/Priyanshi1908/openQA.ai/internal/similarity"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
)

type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Runner answers and scores every QA pair and feeds the rows, in pair order,
// into an Aggregator.
type Runner struct {
	config     Config
	answerer   Answerer
	scorer     similarity.Scorer
	aggregator *report.Aggregator
}

type PairResult struct {
	Index      int
	Pair       domain.QAPair
	Response   string
	Similarity domain.SimilarityResult
	AnswerErr  error
	Latency    time.Duration
}

type Result struct {
	RunID    uuid.UUID
	Rows     []domain.ReportRow
	Latency  report.LatencyStats
	Failures []error
}

// Err summarises answer failures, or returns nil. Signal failures live on the rows.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, e := range r.Failures {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

func New(cfg Config, answerer Answerer, scorer similarity.Scorer, aggregator *report.Aggregator) *Runner {
	return &Runner{
		config:     cfg,
		answerer:   answerer,
		scorer:     scorer,
		aggregator: aggregator,
	}
}

func (r *Runner) Aggregator() *report.Aggregator {
	return r.aggregator
}

// Run evaluates pairs under the configured schedule. On cancellation it stops
// early and returns the rows produced so far together with ctx.Err().
func (r *Runner) Run(ctx context.Context, pairs []domain.QAPair) (*Result, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.New()}
	latencies := make([]time.Duration, 0, len(pairs))
	start := time.Now()

	slog.Info("Evaluating QA pairs", "run_id", res.RunID, "pairs", len(pairs), "schedule", r.config.Schedule)

	emit := func(pr PairResult) {
		latencies = append(latencies, pr.Latency)
		if pr.AnswerErr != nil {
			res.Failures = append(res.Failures, fmt.Errorf("pair %d: %w", pr.Index, pr.AnswerErr))
			r.aggregator.AddRow(report.FailedRow(pr.Pair, pr.AnswerErr))
			return
		}
		r.aggregator.Add(pr.Pair, pr.Response, pr.Similarity)
	}

	var runErr error
	switch r.config.Schedule {
	case Parallel:
		runErr = r.runParallel(ctx, pairs, emit)
	default:
		runErr = r.runSequential(ctx, pairs, emit)
	}
	r.aggregator.Close()

	res.Rows = r.aggregator.Snapshot().Rows
	res.Latency = ComputeLatencyStats(latencies)

	slog.Info("Evaluation finished",
		"run_id", res.RunID,
		"rows", len(res.Rows),
		"answer_failures", len(res.Failures),
		"took", time.Since(start))

	return res, runErr
}

func (r *Runner) runSequential(ctx context.Context, pairs []domain.QAPair, emit func(PairResult)) error {
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		emit(r.evaluatePair(ctx, i, p))
	}
	return nil
}

type pairTask struct {
	ctx     context.Context
	index   int
	pair    domain.QAPair
	results []PairResult
	ready   []chan struct{}
}

// runParallel evaluates pairs on an ants pool. Each pair writes to its own
// slot and closes its ready channel; emission walks the slots in order.
func (r *Runner) runParallel(ctx context.Context, pairs []domain.QAPair, emit func(PairResult)) error {
	results := make([]PairResult, len(pairs))
	ready := make([]chan struct{}, len(pairs))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	pool, err := ants.NewPoolWithFunc(r.config.Workers, func(args any) {
		task, ok := args.(*pairTask)
		if !ok {
			panic("evaluation pool args type error")
		}
		defer close(task.ready[task.index])
		task.results[task.index] = r.evaluatePair(task.ctx, task.index, task.pair)
	})
	if err != nil {
		return fmt.Errorf("create evaluation pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i, p := range pairs {
			task := &pairTask{ctx: ctx, index: i, pair: p, results: results, ready: ready}
			if err := pool.Invoke(task); err != nil {
				results[i] = PairResult{Index: i, Pair: p, AnswerErr: fmt.Errorf("submit pair: %w", err)}
				close(ready[i])
			}
		}
	}()
	defer wg.Wait()

	for i := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ready[i]:
			emit(results[i])
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (r *Runner) evaluatePair(ctx context.Context, index int, pair domain.QAPair) PairResult {
	start := time.Now()
	pr := PairResult{Index: index, Pair: pair}

	response, err := r.answerer.Answer(ctx, pair.Question)
	if err != nil {
		slog.Warn("Answer generation failed", "pair", index, "error", err)
		pr.AnswerErr = err
		pr.Latency = time.Since(start)
		return pr
	}

	pr.Response = response
	pr.Similarity = r.scorer.Compare(ctx, pair.Question, response, pair.Answer)
	pr.Latency = time.Since(start)

	slog.Debug("Evaluated pair", "pair", index, "latency", pr.Latency, "failed_signals", len(pr.Similarity.Errors))
	return pr
}
