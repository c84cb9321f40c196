package es

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID(t *testing.T) {
	runID := uuid.MustParse("6f1c2a8e-3a51-4c3d-9d0f-2b7e8a1c4d5e")
	assert.Equal(t, "6f1c2a8e-3a51-4c3d-9d0f-2b7e8a1c4d5e-3", documentID(runID, 3))
}

func TestToDocument_RoundTripsRow(t *testing.T) {
	cos := 0.87
	row := domain.ReportRow{
		Question:         "Capital of France?",
		ModelResponse:    "Paris",
		ExpectedAnswer:   "Paris",
		CosineSimilarity: &cos,
		ExactMatch:       true,
		FuzzyComparison:  domain.FuzzySimilar.Label(),
		IncludesMatch:    true,
		Errors:           map[string]string{"judge": "bad payload"},
	}

	doc := toDocument(uuid.New(), 0, row, time.Now())
	assert.Equal(t, row, doc.row())
}

func TestToDocument_OmitsFailedSignals(t *testing.T) {
	doc := toDocument(uuid.New(), 1, domain.ReportRow{Question: "q", ExpectedAnswer: "a"}, time.Now())

	b, err := json.Marshal(doc)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "cosine_similarity")
	assert.NotContains(t, m, "llm_accuracy")
	assert.NotContains(t, m, "errors")
	assert.EqualValues(t, 1, m["position"])
}

func TestNewClient_RequiresAddresses(t *testing.T) {
	_, err := newClient(ClientConfig{IndexName: "x"})
	require.Error(t, err)
}
