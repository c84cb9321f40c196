package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/evaluate"
	"github.com/Priyanshi1908/openQA.ai/internal/llm"
	"github.com/Priyanshi1908/openQA.ai/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_PATH", "")
	for _, name := range envBindings {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Pipeline.BatchSize)
	assert.Equal(t, 5, cfg.Pipeline.MaxWorkers)
	assert.Equal(t, evaluate.Sequential, cfg.Pipeline.Schedule)
	assert.Equal(t, 4, cfg.Pipeline.EvalWorkers)
	assert.False(t, cfg.Pipeline.SkipMalformed)
	assert.Equal(t, llm.OpenAI, cfg.LLM.Backend)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.JudgeModel)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, llm.Ollama, cfg.Embedding.Backend)
	assert.Equal(t, "qwen2:1.5b", cfg.Embedding.Model)
	assert.Equal(t, 30*time.Second, cfg.Embedding.Timeout)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.URL)
	assert.Equal(t, storage.None, cfg.Sink.Type)
	assert.Equal(t, "qa_report", cfg.ES.Index)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BATCH_SIZE", "3")
	t.Setenv("SCHEDULE", "parallel")
	t.Setenv("EVAL_WORKERS", "8")
	t.Setenv("LLM_BACKEND", "ollama")
	t.Setenv("LLM_TIMEOUT", "2m")
	t.Setenv("SKIP_MALFORMED", "true")
	t.Setenv("SINK_TYPE", "es")
	t.Setenv("ES_ADDRESSES", "http://a:9200, http://b:9200")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Pipeline.BatchSize)
	assert.Equal(t, evaluate.Parallel, cfg.Pipeline.Schedule)
	assert.Equal(t, 8, cfg.Pipeline.EvalWorkers)
	assert.True(t, cfg.Pipeline.SkipMalformed)
	assert.Equal(t, llm.Ollama, cfg.LLM.Backend)
	assert.Equal(t, 2*time.Minute, cfg.LLM.Timeout)
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.ES.Addresses)

	sink := cfg.SinkConfig()
	require.NotNil(t, sink.Es)
	assert.Equal(t, "qa_report", sink.Es.IndexName)
}

func TestLoad_YAMLFileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "openqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pipeline:
  batch_size: 7
  max_workers: 2
llm:
  model: llama3
embedding:
  model: nomic-embed-text
`), 0o600))
	t.Setenv("MAX_WORKERS", "9")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Pipeline.BatchSize)
	assert.Equal(t, 9, cfg.Pipeline.MaxWorkers)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.JudgeModel)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	var cfgErr *apperr.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero batch size", env: map[string]string{"BATCH_SIZE": "0"}},
		{name: "negative workers", env: map[string]string{"MAX_WORKERS": "-1"}},
		{name: "parallel without workers", env: map[string]string{"SCHEDULE": "parallel", "EVAL_WORKERS": "0"}},
		{name: "unknown schedule", env: map[string]string{"SCHEDULE": "random"}},
		{name: "unknown backend", env: map[string]string{"LLM_BACKEND": "bard"}},
		{name: "zero timeout", env: map[string]string{"EMBEDDING_TIMEOUT": "0s"}},
		{name: "unknown sink", env: map[string]string{"SINK_TYPE": "mongo"}},
		{name: "pg without connection", env: map[string]string{"SINK_TYPE": "pg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")

			var cfgErr *apperr.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestConfig_BlobConfig(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.BlobConfig()
	assert.Error(t, err)

	cfg.MinIO = MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "qa-sets"}
	blob, err := cfg.BlobConfig()
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", blob.Endpoint)
	assert.Equal(t, "qa-sets", blob.Bucket)
}

func TestConfig_WriteYAMLMasksSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))

	out := buf.String()
	assert.NotContains(t, out, "sk-secret")
	assert.Contains(t, out, redacted)
	assert.Contains(t, out, "batch_size: 5")
	assert.Equal(t, "sk-secret", cfg.OpenAI.APIKey)
}
