package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
)

// Extractor turns a document on disk into ordered page texts.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}

// ForPath picks an extractor by file extension.
func ForPath(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFExtractor(), nil
	case ".txt", ".text":
		return NewTextExtractor(), nil
	default:
		return nil, fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}
}

func Texts(pages []domain.Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Text
	}
	return out
}
