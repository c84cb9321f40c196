//go:build integration

package pg

import (
	"context"
	"os"
	"testing"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	pkgtesting "github.com/Priyanshi1908/openQA.ai/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx  context.Context
	testPool *ConnectionPool
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.DefaultPGConfig())
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		_ = testcontainers.TerminateContainer(pg.Container)
		panic(err)
	}

	code := m.Run()

	testPool.Close()
	_ = testcontainers.TerminateContainer(pg.Container)
	os.Exit(code)
}

func ptr(f float64) *float64 { return &f }

func TestSink_WriteAndReadBack(t *testing.T) {
	sink := NewSink(testPool)
	runID := uuid.New()

	rows := []domain.ReportRow{
		{
			Question:         "Capital of France?",
			ModelResponse:    "Paris",
			ExpectedAnswer:   "Paris",
			CosineSimilarity: ptr(1),
			ExactMatch:       true,
			FuzzyComparison:  domain.FuzzySimilar.Label(),
			IncludesMatch:    true,
			LLMAccuracy:      ptr(1),
			LLMRelevance:     ptr(1),
			LLMBias:          ptr(0),
			LLMExplanation:   "identical",
		},
		{
			Question:        "Largest planet?",
			ExpectedAnswer:  "Jupiter",
			FuzzyComparison: domain.FuzzyDifferent.Label(),
			Errors:          map[string]string{domain.AnswerErrorKey: "timed out"},
		},
	}

	require.NoError(t, sink.Write(testCtx, runID, rows))

	got, err := sink.Rows(testCtx, runID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, rows[0], got[0])
	assert.Nil(t, got[1].CosineSimilarity)
	assert.Equal(t, "timed out", got[1].Errors[domain.AnswerErrorKey])
}

func TestSink_WriteReplacesRun(t *testing.T) {
	sink := NewSink(testPool)
	runID := uuid.New()

	require.NoError(t, sink.Write(testCtx, runID, []domain.ReportRow{{Question: "a", ExpectedAnswer: "a"}, {Question: "b", ExpectedAnswer: "b"}}))
	require.NoError(t, sink.Write(testCtx, runID, []domain.ReportRow{{Question: "c", ExpectedAnswer: "c"}}))

	got, err := sink.Rows(testCtx, runID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Question)
}

func TestHealthChecker(t *testing.T) {
	assert.True(t, NewHealthChecker(testPool).Healthy(testCtx))
	assert.False(t, NewHealthChecker(nil).Healthy(testCtx))
}
