package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/internal/evaluate"
	"github.com/Priyanshi1908/openQA.ai/internal/qagen"
	"github.com/Priyanshi1908/openQA.ai/internal/qastore"
	"github.com/Priyanshi1908/openQA.ai/internal/report"
	"github.com/Priyanshi1908/openQA.ai/internal/segment"
	"github.com/Priyanshi1908/openQA.ai/internal/server"
	"github.com/Priyanshi1908/openQA.ai/internal/similarity"
	pkgserver "github.com/Priyanshi1908/openQA.ai/pkg/server"
)

type generateOptions struct {
	docPath string
	outPath string
	upload  bool
	object  string
}

type outputOptions struct {
	reportPath string
	rowsPath   string
}

type evaluateOptions struct {
	inPath        string
	object        string
	skipMalformed bool
	output        outputOptions
}

type runOptions struct {
	docPath string
	qaPath  string
	output  outputOptions
}

func runGenerate(ctx context.Context, root *rootOptions, opts generateOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	pages, err := extractPages(ctx, opts.docPath)
	if err != nil {
		return err
	}

	batches, err := segment.Segment(pages, a.cfg.Pipeline.BatchSize)
	if err != nil {
		return err
	}

	res, err := a.generator().Generate(ctx, batches)
	if err != nil {
		return err
	}
	if genErr := res.Err(); genErr != nil {
		slog.Warn("Some batches failed", "failed", len(res.Errors), "batches", len(batches), "error", genErr)
	}

	pairs := res.Pairs()
	if err := qastore.WriteFile(opts.outPath, pairs); err != nil {
		return err
	}
	slog.Info("QA set written", "path", opts.outPath, "pairs", len(pairs))

	if opts.upload {
		store, err := a.blobStore(ctx)
		if err != nil {
			return fmt.Errorf("upload qa set: %w", err)
		}
		object := opts.object
		if object == "" {
			object = filepath.Base(opts.outPath)
		}
		if err := store.Put(ctx, object, pairs); err != nil {
			return err
		}
	}

	return nil
}

func runEvaluate(ctx context.Context, root *rootOptions, opts evaluateOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	readOpts := a.readOptions(opts.skipMalformed)

	var (
		pairs  []domain.QAPair
		source string
	)
	if opts.object != "" {
		store, err := a.blobStore(ctx)
		if err != nil {
			return fmt.Errorf("download qa set: %w", err)
		}
		source = opts.object
		pairs, err = store.Get(ctx, opts.object, readOpts...)
		if err != nil {
			return err
		}
	} else {
		source = opts.inPath
		pairs, err = qastore.ReadFile(opts.inPath, readOpts...)
		if err != nil {
			return err
		}
	}

	agg := report.NewAggregator()
	agg.Subscribe(progressSubscriber(len(pairs)))

	res, runErr := a.runner(agg).Run(ctx, pairs)
	if res == nil {
		return runErr
	}

	if err := a.finish(ctx, source, res, nil, opts.output); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func runPipeline(ctx context.Context, root *rootOptions, opts runOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	pages, err := extractPages(ctx, opts.docPath)
	if err != nil {
		return err
	}

	agg := report.NewAggregator()
	agg.Subscribe(progressSubscriber(-1))

	res, runErr := a.pipeline(agg, opts.qaPath).Run(ctx, pages)
	if res == nil || res.Evaluation == nil {
		return runErr
	}

	if err := a.finish(ctx, opts.docPath, res.Evaluation, res.GenerationFailures(), opts.output); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func (a *app) pipeline(agg *report.Aggregator, qaPath string, opts ...evaluate.PipelineOption) *evaluate.Pipeline {
	pipeOpts := append([]evaluate.PipelineOption{}, opts...)
	if qaPath != "" {
		pipeOpts = append(pipeOpts, evaluate.WithQAFile(qaPath))
	}
	if a.cfg.Pipeline.SkipMalformed {
		pipeOpts = append(pipeOpts, evaluate.WithSkipMalformed())
	}
	return evaluate.NewPipeline(a.cfg.Pipeline.BatchSize, a.generator(), a.runner(agg), pipeOpts...)
}

// finish prints the report table, writes the requested files and persists the rows to the sink.
func (a *app) finish(ctx context.Context, source string, res *evaluate.Result, genFailures []string, out outputOptions) error {
	doc := a.document(source, res, genFailures)
	report.WriteTable(doc, os.Stdout)

	if out.reportPath != "" {
		if err := report.WriteJSON(doc, out.reportPath); err != nil {
			return err
		}
		slog.Info("Report written", "path", out.reportPath)
	}

	if out.rowsPath != "" {
		if err := writeRows(doc, out.rowsPath); err != nil {
			return err
		}
		slog.Info("Report rows written", "path", out.rowsPath)
	}

	sink, err := a.sink(ctx)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := sink.Write(ctx, res.RunID, res.Rows); err != nil {
		slog.Warn("Failed to persist report rows", "run_id", res.RunID, "sink", a.cfg.Sink.Type, "error", err)
		return err
	}
	return nil
}

func writeRows(doc *report.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create rows file: %w", err)
	}
	defer f.Close()

	return report.WriteRowsJSONL(doc, f)
}

func runCompare(ctx context.Context, root *rootOptions, w io.Writer, question, answer1, answer2 string) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	cmp, err := similarity.NewComparer(a.completer, a.cfg.LLM.JudgeModel).Compare(ctx, question, answer1, answer2)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cmp)
}

func runServe(ctx context.Context, root *rootOptions, docPath string, origins []string) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	srvCfg, err := server.NewConfig(a.cfg.Server.Port, origins...)
	if err != nil {
		return err
	}

	pages, err := extractPages(ctx, docPath)
	if err != nil {
		return err
	}

	sink, err := a.sink(ctx)
	if err != nil {
		return err
	}
	defer sink.Close()

	health := pkgserver.AllHealthChecker{pkgserver.NewOkHealthChecker()}
	if hc, ok := sink.(pkgserver.HealthChecker); ok {
		health = append(health, hc)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := server.New(ctx, srvCfg, health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	view := server.NewReportView()
	server.NewReportRouter(s.Echo, view).Bind()

	agg := report.NewAggregator()
	agg.Subscribe(view.Observe)

	done := make(chan struct{})
	go func() {
		defer close(done)
		view.Start()
		onGenerated := evaluate.OnGenerated(func(gen *qagen.Result) {
			view.SetGenerationFailures(gen.Failures())
		})
		res, err := a.pipeline(agg, "", onGenerated).Run(s.Context(), pages)
		if err != nil {
			slog.Error("Pipeline failed", "error", err)
			view.Fail(err)
		}
		if res == nil || res.Evaluation == nil {
			return
		}
		if err := sink.Write(s.Context(), res.Evaluation.RunID, res.Evaluation.Rows); err != nil {
			slog.Warn("Failed to persist report rows", "run_id", res.Evaluation.RunID, "error", err)
		}
	}()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	cancel()
	<-done
	return err
}
