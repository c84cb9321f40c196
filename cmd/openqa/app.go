package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/answer"
	"github.com/Priyanshi1908/openQA.ai/internal/config"
	"github.com/Priyanshi1908/openQA.ai/internal/evaluate"
	"github.com/Priyanshi1908/openQA.ai/internal/extract"
	"github.com/Priyanshi1908/openQA.ai/internal/llm"
	"github.com/Priyanshi1908/openQA.ai/internal/qagen"
	"github.com/Priyanshi1908/openQA.ai/internal/qastore"
	"github.com/Priyanshi1908/openQA.ai/internal/report"
	"github.com/Priyanshi1908/openQA.ai/internal/similarity"
	"github.com/Priyanshi1908/openQA.ai/internal/storage"
	"github.com/Priyanshi1908/openQA.ai/internal/storage/factory"
)

// app holds the configured backends shared by every command.
type app struct {
	cfg       *config.Config
	completer llm.Completer
	embedder  llm.Embedder
}

func loadConfig(root *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(root.configPath, root.envFiles...)
	if err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded",
		"llm_backend", cfg.LLM.Backend,
		"llm_model", cfg.LLM.Model,
		"embedding_backend", cfg.Embedding.Backend,
		"schedule", cfg.Pipeline.Schedule,
		"sink", cfg.Sink.Type)
	return cfg, nil
}

func newApp(root *rootOptions) (*app, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}

	chat, err := llm.NewCapability(cfg.LLM.Backend, cfg.BackendConfig())
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", cfg.LLM.Backend, err)
	}

	var emb llm.Embedder = chat
	if cfg.Embedding.Backend != cfg.LLM.Backend {
		embCap, err := llm.NewCapability(cfg.Embedding.Backend, cfg.BackendConfig())
		if err != nil {
			return nil, fmt.Errorf("create %s embedding backend: %w", cfg.Embedding.Backend, err)
		}
		emb = embCap
	}

	return &app{
		cfg:       cfg,
		completer: llm.WithCompleteTimeout(chat, cfg.LLM.Timeout),
		embedder:  llm.WithEmbedTimeout(emb, cfg.Embedding.Timeout),
	}, nil
}

func (a *app) generator() *qagen.Generator {
	return qagen.New(a.completer, a.cfg.QAGenConfig())
}

func (a *app) runner(agg *report.Aggregator) *evaluate.Runner {
	answerer := answer.New(a.completer, a.cfg.LLM.Model)
	judge := similarity.NewJudge(a.completer, a.cfg.LLM.JudgeModel)
	engine := similarity.NewEngine(a.embedder, judge, similarity.WithEmbeddingModel(a.cfg.Embedding.Model))
	return evaluate.New(a.cfg.EvaluateConfig(), answerer, engine, agg)
}

func (a *app) blobStore(ctx context.Context) (*qastore.BlobStore, error) {
	blobCfg, err := a.cfg.BlobConfig()
	if err != nil {
		return nil, err
	}
	store, err := qastore.NewBlobStore(blobCfg)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (a *app) sink(ctx context.Context) (storage.Sink, error) {
	return factory.NewSink(ctx, a.cfg.SinkConfig())
}

func (a *app) readOptions(skipMalformed bool) []qastore.ReadOption {
	if !skipMalformed && !a.cfg.Pipeline.SkipMalformed {
		return nil
	}
	return []qastore.ReadOption{qastore.SkipMalformed(nil)}
}

func (a *app) document(source string, res *evaluate.Result, genFailures []string) *report.Document {
	failures := make([]string, len(res.Failures))
	for i, f := range res.Failures {
		failures[i] = f.Error()
	}

	return &report.Document{
		RunID: res.RunID.String(),
		Meta: report.RunMeta{
			Version:   version,
			Timestamp: time.Now().UTC(),
			Source:    source,
			Models: report.ModelInfo{
				Answer:    a.cfg.LLM.Model,
				Judge:     a.cfg.LLM.JudgeModel,
				Embedding: a.cfg.Embedding.Model,
			},
			Schedule:    string(a.cfg.Pipeline.Schedule),
			Environment: report.NewEnvironmentInfo(),
		},
		Summary:  report.Summarize(res.Rows),
		Latency:  res.Latency,
		Rows:     res.Rows,
		Failures: failures,

		GenerationFailures: genFailures,
	}
}

func extractPages(ctx context.Context, path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	ex, err := extract.ForPath(path)
	if err != nil {
		return nil, err
	}

	pages, err := ex.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	slog.Info("Extracted document", "path", path, "pages", len(pages))
	return extract.Texts(pages), nil
}
