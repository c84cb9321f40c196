package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
)

const pageBreak = "\f"

// TextExtractor reads plain text files, splitting pages on form feeds.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Extract(_ context.Context, path string) ([]domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text document: %w", err)
	}

	parts := strings.Split(string(data), pageBreak)
	pages := make([]domain.Page, len(parts))
	for i, p := range parts {
		pages[i] = domain.Page{Index: i, Text: p}
	}
	return pages, nil
}
