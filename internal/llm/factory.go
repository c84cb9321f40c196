package llm

import (
	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
)

type Backend string

const (
	OpenAI Backend = "openai"
	Ollama Backend = "ollama"
)

type BackendConfig struct {
	OpenAI    OpenAIConfig
	OllamaURL string
}

// NewCapability builds the backend named by b.
func NewCapability(b Backend, cfg BackendConfig) (Capability, error) {
	switch b {
	case OpenAI:
		client, err := NewOpenAIClient(cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return client, nil
	case Ollama:
		client, err := NewOllamaClient(cfg.OllamaURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, apperr.NewConfigf("unsupported llm backend: %s", b)
	}
}
