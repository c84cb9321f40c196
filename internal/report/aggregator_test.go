package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okSimilarity() domain.SimilarityResult {
	return domain.SimilarityResult{
		Cosine:   0.93,
		Exact:    true,
		Includes: true,
		Fuzzy:    domain.FuzzyScores{Ratio: 100, Verdict: domain.FuzzySimilar},
		Judge:    domain.JudgeVerdict{Accuracy: 1, Relevance: 0.9, Bias: 0, Explanation: "correct"},
	}
}

func TestFlatten_AllFields(t *testing.T) {
	row := Flatten(domain.QAPair{Question: "Capital of France?", Answer: "Paris"}, "Paris", okSimilarity())

	assert.Equal(t, "Capital of France?", row.Question)
	assert.Equal(t, "Paris", row.ModelResponse)
	assert.Equal(t, "Paris", row.ExpectedAnswer)
	require.NotNil(t, row.CosineSimilarity)
	assert.Equal(t, 0.93, *row.CosineSimilarity)
	assert.True(t, row.ExactMatch)
	assert.True(t, row.IncludesMatch)
	assert.Equal(t, "Sentences are similar", row.FuzzyComparison)
	assert.Equal(t, 1.0, *row.LLMAccuracy)
	assert.Equal(t, 0.9, *row.LLMRelevance)
	assert.Equal(t, 0.0, *row.LLMBias)
	assert.Equal(t, "correct", row.LLMExplanation)
	assert.False(t, row.HasErrors())
}

func TestFlatten_MarksFailedSignals(t *testing.T) {
	sim := okSimilarity()
	sim.Cosine = 0
	sim.Errors = map[domain.Signal]error{domain.SignalCosine: apperr.NewEmbedding("embedding vector has zero norm")}

	row := Flatten(domain.QAPair{Question: "q", Answer: "a"}, "a", sim)

	assert.Nil(t, row.CosineSimilarity)
	assert.Equal(t, "embedding vector has zero norm", row.Errors["cosine"])
	assert.NotNil(t, row.LLMAccuracy)
	assert.True(t, row.ExactMatch)
}

func TestFlatten_JSONKeys(t *testing.T) {
	d := &Document{Rows: []domain.ReportRow{Flatten(domain.QAPair{Question: "q", Answer: "a"}, "a", okSimilarity())}}

	var buf bytes.Buffer
	require.NoError(t, WriteRowsJSONL(d, &buf))

	for _, key := range []string{
		"Question", "Model_Response", "Expected_Answer", "Cosine_Similarity", "Exact_Match",
		"Fuzzy_Comparison", "Includes_Match", "LLM_Accuracy", "LLM_Relevance", "LLM_Bias", "LLM_Explanation",
	} {
		assert.Contains(t, buf.String(), `"`+key+`":`)
	}
	assert.NotContains(t, buf.String(), `"Errors"`)
}

func TestAggregator_PublishesGrowingSnapshots(t *testing.T) {
	agg := NewAggregator()

	var seen []Snapshot
	agg.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	for i := 0; i < 3; i++ {
		agg.Add(domain.QAPair{Question: fmt.Sprintf("q%d", i), Answer: "a"}, "a", okSimilarity())
	}
	agg.Close()

	require.Len(t, seen, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, i+1, seen[i].Seq)
		require.Len(t, seen[i].Rows, i+1)
		assert.Equal(t, fmt.Sprintf("q%d", i), seen[i].Rows[i].Question)
		assert.False(t, seen[i].Done)
	}
	assert.True(t, seen[3].Done)
	assert.Len(t, seen[3].Rows, 3)
}

func TestAggregator_SnapshotsAreImmutable(t *testing.T) {
	agg := NewAggregator()
	agg.Add(domain.QAPair{Question: "q0"}, "x", okSimilarity())

	first := agg.Snapshot()
	agg.Add(domain.QAPair{Question: "q1"}, "y", okSimilarity())

	assert.Len(t, first.Rows, 1)
	assert.Equal(t, 2, agg.Len())

	first.Rows[0].Question = "mutated"
	assert.Equal(t, "q0", agg.Snapshot().Rows[0].Question)
}

func TestAggregator_Unsubscribe(t *testing.T) {
	agg := NewAggregator()

	calls := 0
	cancel := agg.Subscribe(func(Snapshot) { calls++ })
	agg.AddRow(domain.ReportRow{Question: "q0"})
	cancel()
	agg.AddRow(domain.ReportRow{Question: "q1"})

	assert.Equal(t, 1, calls)
}

func TestSummarize(t *testing.T) {
	failedCosine := okSimilarity()
	failedCosine.Errors = map[domain.Signal]error{domain.SignalCosine: errors.New("down")}
	different := okSimilarity()
	different.Exact = false
	different.Cosine = 0.5
	different.Fuzzy.Verdict = domain.FuzzyDifferent

	rows := []domain.ReportRow{
		Flatten(domain.QAPair{Question: "q0"}, "a", okSimilarity()),
		Flatten(domain.QAPair{Question: "q1"}, "a", failedCosine),
		Flatten(domain.QAPair{Question: "q2"}, "a", different),
		FailedRow(domain.QAPair{Question: "q3"}, errors.New("timeout")),
	}

	s := Summarize(rows)

	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 2, s.ExactMatches)
	assert.Equal(t, 3, s.Includes)
	assert.Equal(t, 2, s.FuzzySimilar)
	assert.InDelta(t, 0.715, s.MeanCosine, 1e-9)
	assert.InDelta(t, 1.0, s.MeanAccuracy, 1e-9)
	assert.Equal(t, map[string]int{"cosine": 1, "answer": 1}, s.Errors)
}

func TestSummarize_NegativeCosine(t *testing.T) {
	cos := -0.123456
	s := Summarize([]domain.ReportRow{{CosineSimilarity: &cos}})
	assert.InDelta(t, -0.1235, s.MeanCosine, 1e-9)
}

func TestWriteTable(t *testing.T) {
	rows := []domain.ReportRow{
		Flatten(domain.QAPair{Question: "Capital of France?", Answer: "Paris"}, "Paris", okSimilarity()),
		FailedRow(domain.QAPair{Question: strings.Repeat("long ", 20), Answer: "x"}, errors.New("boom")),
	}
	d := &Document{RunID: "run-1", Rows: rows, Summary: Summarize(rows)}

	var buf bytes.Buffer
	WriteTable(d, &buf)
	out := buf.String()

	assert.Contains(t, out, "QA Evaluation Report")
	assert.Contains(t, out, "Fuzzy_Comparison")
	assert.Contains(t, out, "Sentences are similar")
	assert.Contains(t, out, "ERR")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "Generation failures")
}

func TestWriteTable_Failures(t *testing.T) {
	d := &Document{
		RunID:              "run-2",
		Failures:           []string{"pair 3: answer timed out"},
		GenerationFailures: []string{"generate batch 1: service down"},
	}

	var buf bytes.Buffer
	WriteTable(d, &buf)
	out := buf.String()

	assert.Contains(t, out, "Generation failures (1)")
	assert.Contains(t, out, "generate batch 1: service down")
	assert.Contains(t, out, "Answer failures (1)")
	assert.Contains(t, out, "pair 3: answer timed out")
}
