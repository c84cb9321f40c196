package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/ledongthuc/pdf"
)

type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns one Page per PDF page. Pages without extractable text are
// kept as empty strings so page positions stay stable.
func (e *PDFExtractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("create pdf reader: %w", err)
	}

	total := reader.NumPage()
	pages := make([]domain.Page, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, domain.Page{Index: i - 1, Text: pageText(reader, i)})
	}

	slog.Info("Extracted pdf", "path", path, "pages", len(pages))
	return pages, nil
}

func pageText(reader *pdf.Reader, index int) string {
	page := reader.Page(index)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		slog.Warn("Failed to extract page text", "page", index, "error", err)
		return ""
	}
	return text
}
