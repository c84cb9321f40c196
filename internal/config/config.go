package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/evaluate"
	"github.com/Priyanshi1908/openQA.ai/internal/llm"
	"github.com/Priyanshi1908/openQA.ai/internal/qagen"
	"github.com/Priyanshi1908/openQA.ai/internal/qastore"
	"github.com/Priyanshi1908/openQA.ai/internal/segment"
	"github.com/Priyanshi1908/openQA.ai/internal/similarity"
	"github.com/Priyanshi1908/openQA.ai/internal/storage"
	"github.com/Priyanshi1908/openQA.ai/internal/storage/es"
	"github.com/Priyanshi1908/openQA.ai/internal/storage/factory"
	"github.com/Priyanshi1908/openQA.ai/internal/storage/pg"
	"github.com/Priyanshi1908/openQA.ai/pkg/config/env"
	"github.com/Priyanshi1908/openQA.ai/pkg/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const redacted = "***"

type Config struct {
	Env       string          `mapstructure:"env" yaml:"env"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" yaml:"pipeline"`
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding" yaml:"embedding"`
	OpenAI    OpenAIConfig    `mapstructure:"openai" yaml:"openai"`
	Ollama    OllamaConfig    `mapstructure:"ollama" yaml:"ollama"`
	Sink      SinkConfig      `mapstructure:"sink" yaml:"sink"`
	Postgres  PostgresConfig  `mapstructure:"postgres" yaml:"postgres"`
	ES        ESConfig        `mapstructure:"es" yaml:"es"`
	MinIO     MinIOConfig     `mapstructure:"minio" yaml:"minio"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
}

type PipelineConfig struct {
	BatchSize     int               `mapstructure:"batch_size" yaml:"batch_size"`
	MaxWorkers    int               `mapstructure:"max_workers" yaml:"max_workers"`
	Schedule      evaluate.Schedule `mapstructure:"schedule" yaml:"schedule"`
	EvalWorkers   int               `mapstructure:"eval_workers" yaml:"eval_workers"`
	SkipMalformed bool              `mapstructure:"skip_malformed" yaml:"skip_malformed"`
}

type LLMConfig struct {
	Backend    llm.Backend   `mapstructure:"backend" yaml:"backend"`
	Model      string        `mapstructure:"model" yaml:"model"`
	JudgeModel string        `mapstructure:"judge_model" yaml:"judge_model"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type EmbeddingConfig struct {
	Backend llm.Backend   `mapstructure:"backend" yaml:"backend"`
	Model   string        `mapstructure:"model" yaml:"model"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

type OllamaConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type SinkConfig struct {
	Type storage.Type `mapstructure:"type" yaml:"type"`
}

type PostgresConfig struct {
	ConnStr string `mapstructure:"conn_str" yaml:"conn_str,omitempty"`
}

type ESConfig struct {
	Addresses []string `mapstructure:"addresses" yaml:"addresses,omitempty"`
	Index     string   `mapstructure:"index" yaml:"index"`
	Username  string   `mapstructure:"username" yaml:"username,omitempty"`
	Password  string   `mapstructure:"password" yaml:"password,omitempty"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" yaml:"port"`
}

// Load reads .env files, process environment and the optional YAML file at
// path. Environment variables take precedence over the file.
func Load(path string, dotEnvPaths ...string) (*Config, error) {
	if err := env.LoadDotEnv(os.Getenv("ENV"), dotEnvPaths...); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, apperr.NewConfigf("bind environment: %v", err)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &apperr.ConfigError{Message: fmt.Sprintf("read config file %s", path), Err: err}
		}
		slog.Debug("Loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &apperr.ConfigError{Message: "decode config", Err: err}
	}
	cfg.ES.Addresses = utils.TrimNonEmpty(cfg.ES.Addresses)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("pipeline.batch_size", segment.DefaultBatchSize)
	v.SetDefault("pipeline.max_workers", qagen.DefaultMaxWorkers)
	v.SetDefault("pipeline.schedule", string(evaluate.Sequential))
	v.SetDefault("pipeline.eval_workers", evaluate.DefaultWorkers)
	v.SetDefault("pipeline.skip_malformed", false)

	v.SetDefault("llm.backend", string(llm.OpenAI))
	v.SetDefault("llm.model", qagen.DefaultModel)
	v.SetDefault("llm.judge_model", qagen.DefaultModel)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("embedding.backend", string(llm.Ollama))
	v.SetDefault("embedding.model", similarity.DefaultEmbeddingModel)
	v.SetDefault("embedding.timeout", "30s")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("ollama.url", "http://localhost:11434")

	v.SetDefault("sink.type", string(storage.None))
	v.SetDefault("postgres.conn_str", "")
	v.SetDefault("es.addresses", []string{})
	v.SetDefault("es.index", es.DefaultIndexName)
	v.SetDefault("es.username", "")
	v.SetDefault("es.password", "")

	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", qastore.DefaultBucket)
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("server.port", "8080")
}

var envBindings = map[string]string{
	"env":                     "ENV",
	"pipeline.batch_size":     "BATCH_SIZE",
	"pipeline.max_workers":    "MAX_WORKERS",
	"pipeline.schedule":       "SCHEDULE",
	"pipeline.eval_workers":   "EVAL_WORKERS",
	"pipeline.skip_malformed": "SKIP_MALFORMED",
	"llm.backend":             "LLM_BACKEND",
	"llm.model":               "LLM_MODEL",
	"llm.judge_model":         "JUDGE_MODEL",
	"llm.timeout":             "LLM_TIMEOUT",
	"embedding.backend":       "EMBEDDING_BACKEND",
	"embedding.model":         "EMBEDDING_MODEL",
	"embedding.timeout":       "EMBEDDING_TIMEOUT",
	"openai.api_key":          "OPENAI_API_KEY",
	"openai.base_url":         "OPENAI_BASE_URL",
	"ollama.url":              "OLLAMA_URL",
	"sink.type":               "SINK_TYPE",
	"postgres.conn_str":       "DB_CONNECTION_STRING",
	"es.addresses":            "ES_ADDRESSES",
	"es.index":                "ES_INDEX_NAME",
	"es.username":             "ES_USERNAME",
	"es.password":             "ES_PASSWORD",
	"minio.endpoint":          "MINIO_ENDPOINT",
	"minio.access_key":        "MINIO_ACCESS_KEY",
	"minio.secret_key":        "MINIO_SECRET_KEY",
	"minio.bucket":            "MINIO_BUCKET",
	"minio.use_ssl":           "MINIO_USE_SSL",
	"server.port":             "PORT",
}

func bindEnv(v *viper.Viper) error {
	for key, name := range envBindings {
		if err := v.BindEnv(key, name); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports the first invalid setting as a ConfigError.
func (c *Config) Validate() error {
	p := c.Pipeline
	if p.BatchSize <= 0 {
		return apperr.NewConfigf("batch_size must be positive, got %d", p.BatchSize)
	}
	if p.MaxWorkers <= 0 {
		return apperr.NewConfigf("max_workers must be positive, got %d", p.MaxWorkers)
	}
	if err := c.EvaluateConfig().Validate(); err != nil {
		return err
	}

	if err := validBackend("llm.backend", c.LLM.Backend); err != nil {
		return err
	}
	if err := validBackend("embedding.backend", c.Embedding.Backend); err != nil {
		return err
	}
	if c.LLM.Model == "" || c.LLM.JudgeModel == "" || c.Embedding.Model == "" {
		return apperr.NewConfig("model ids must not be empty")
	}
	if c.LLM.Timeout <= 0 || c.Embedding.Timeout <= 0 {
		return apperr.NewConfig("timeouts must be positive")
	}

	if err := c.SinkConfig().Validate(); err != nil {
		return err
	}
	return nil
}

func validBackend(key string, b llm.Backend) error {
	switch b {
	case llm.OpenAI, llm.Ollama:
		return nil
	default:
		return apperr.NewConfigf("%s: unknown backend %q", key, b)
	}
}

func (c *Config) QAGenConfig() qagen.Config {
	return qagen.Config{
		Model:      c.LLM.Model,
		MaxWorkers: c.Pipeline.MaxWorkers,
	}
}

func (c *Config) EvaluateConfig() evaluate.Config {
	return evaluate.Config{
		Schedule: c.Pipeline.Schedule,
		Workers:  c.Pipeline.EvalWorkers,
	}
}

func (c *Config) BackendConfig() llm.BackendConfig {
	return llm.BackendConfig{
		OpenAI: llm.OpenAIConfig{
			APIKey:  c.OpenAI.APIKey,
			BaseURL: c.OpenAI.BaseURL,
		},
		OllamaURL: c.Ollama.URL,
	}
}

func (c *Config) SinkConfig() factory.SinkConfig {
	cfg := factory.SinkConfig{Type: c.Sink.Type}
	switch c.Sink.Type {
	case storage.PG:
		cfg.Pg = &pg.PoolConfig{ConnStr: c.Postgres.ConnStr}
	case storage.ES:
		cfg.Es = &es.ClientConfig{
			Addresses: c.ES.Addresses,
			IndexName: c.ES.Index,
			Username:  c.ES.Username,
			Password:  c.ES.Password,
		}
	}
	return cfg
}

// BlobConfig returns the MinIO settings, or an error when no endpoint is set.
func (c *Config) BlobConfig() (qastore.BlobConfig, error) {
	if c.MinIO.Endpoint == "" {
		return qastore.BlobConfig{}, errors.New("minio endpoint is not configured")
	}
	return qastore.BlobConfig{
		Endpoint:  c.MinIO.Endpoint,
		AccessKey: c.MinIO.AccessKey,
		SecretKey: c.MinIO.SecretKey,
		Bucket:    c.MinIO.Bucket,
		UseSSL:    c.MinIO.UseSSL,
	}, nil
}

// WriteYAML dumps the effective configuration with secrets masked.
func (c *Config) WriteYAML(w io.Writer) error {
	out := *c
	out.OpenAI.APIKey = mask(out.OpenAI.APIKey)
	out.Postgres.ConnStr = mask(out.Postgres.ConnStr)
	out.ES.Password = mask(out.ES.Password)
	out.MinIO.SecretKey = mask(out.MinIO.SecretKey)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return redacted
}
