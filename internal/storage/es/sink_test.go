//go:build integration

package es

import (
	"testing"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	pkgtesting "github.com/Priyanshi1908/openQA.ai/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_WriteAndReadBack(t *testing.T) {
	ctx := t.Context()
	container := pkgtesting.NewESContainer(ctx, t, pkgtesting.DefaultESConfig())

	sink, err := NewSink(ctx, ClientConfig{
		Addresses: container.Addresses(),
		IndexName: "qa_report_test",
	})
	require.NoError(t, err)
	require.NoError(t, sink.EnsureIndex(ctx))

	runID := uuid.New()
	rows := []domain.ReportRow{
		{Question: "q1", ExpectedAnswer: "a1", ModelResponse: "a1", ExactMatch: true, FuzzyComparison: domain.FuzzySimilar.Label()},
		{Question: "q2", ExpectedAnswer: "a2", Errors: map[string]string{domain.AnswerErrorKey: "boom"}},
		{Question: "q3", ExpectedAnswer: "a3", ModelResponse: "x"},
	}
	require.NoError(t, sink.Write(ctx, runID, rows))

	got, err := sink.Rows(ctx, runID, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "q1", got[0].Question)
	assert.Equal(t, "boom", got[1].Errors[domain.AnswerErrorKey])
	assert.Equal(t, "q3", got[2].Question)

	require.NoError(t, sink.Write(ctx, runID, rows[:1]))
	got, err = sink.Rows(ctx, runID, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
