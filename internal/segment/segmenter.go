package segment

import (
	"strings"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
)

const DefaultBatchSize = 5

// Segment groups consecutive pages into batches of batchSize pages, joining
// their text with no separator. The last batch may hold fewer pages.
func Segment(pages []string, batchSize int) ([]domain.Batch, error) {
	if batchSize <= 0 {
		return nil, apperr.NewConfigf("batch size must be positive, got %d", batchSize)
	}

	batches := make([]domain.Batch, 0, (len(pages)+batchSize-1)/batchSize)
	for start := 0; start < len(pages); start += batchSize {
		end := min(start+batchSize, len(pages))
		batches = append(batches, domain.Batch{
			Index:     len(batches),
			FirstPage: start,
			PageCount: end - start,
			Text:      strings.Join(pages[start:end], ""),
		})
	}

	return batches, nil
}

// SegmentPages is Segment for extractor output.
func SegmentPages(pages []domain.Page, batchSize int) ([]domain.Batch, error) {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return Segment(texts, batchSize)
}
