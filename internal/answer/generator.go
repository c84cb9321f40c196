package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/llm"
)

const systemInstruction = "reply only with single line factoid answers."

// Generator asks the model under test for a short factual answer.
type Generator struct {
	completer llm.Completer
	model     string
}

func New(completer llm.Completer, model string) *Generator {
	return &Generator{completer: completer, model: model}
}

// Answer returns the first non-empty line of the model reply, trimmed.
func (g *Generator) Answer(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperr.NewValidation("question is empty")
	}

	resp, err := g.completer.Complete(ctx, llm.Request{
		Model:  g.model,
		System: systemInstruction,
		Prompt: question,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return firstLine(resp.Text), nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}
