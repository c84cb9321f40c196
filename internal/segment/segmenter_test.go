package segment

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pages(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("page-%d;", i)
	}
	return out
}

func TestSegment_BatchSizes(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		batchSize int
		want      []int
	}{
		{"twelve pages by five", 12, 5, []int{5, 5, 2}},
		{"exact multiple", 10, 5, []int{5, 5}},
		{"single batch", 3, 5, []int{3}},
		{"batch of one", 3, 1, []int{1, 1, 1}},
		{"no pages", 0, 5, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches, err := Segment(pages(tt.pageCount), tt.batchSize)
			require.NoError(t, err)

			got := make([]int, len(batches))
			for i, b := range batches {
				got[i] = b.PageCount
				assert.Equal(t, i, b.Index)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSegment_LosslessAndOrdered(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5, 7, 13} {
		in := pages(12)
		batches, err := Segment(in, size)
		require.NoError(t, err)

		var joined strings.Builder
		next := 0
		for _, b := range batches {
			assert.Equal(t, next, b.FirstPage)
			next += b.PageCount
			joined.WriteString(b.Text)
		}
		assert.Equal(t, len(in), next)
		assert.Equal(t, strings.Join(in, ""), joined.String())
	}
}

func TestSegment_FullBatchesExceptLast(t *testing.T) {
	batches, err := Segment(pages(23), 4)
	require.NoError(t, err)

	for i, b := range batches[:len(batches)-1] {
		assert.Equal(t, 4, b.PageCount, "batch %d", i)
	}
	assert.Equal(t, 3, batches[len(batches)-1].PageCount)
}

func TestSegment_InvalidBatchSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Segment(pages(3), size)
		require.Error(t, err)

		var ce *apperr.ConfigError
		assert.True(t, errors.As(err, &ce))
	}
}

func TestSegmentPages(t *testing.T) {
	in := []domain.Page{{Index: 0, Text: "a"}, {Index: 1, Text: "b"}, {Index: 2, Text: "c"}}

	batches, err := SegmentPages(in, 2)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "ab", batches[0].Text)
	assert.Equal(t, "c", batches[1].Text)
}
