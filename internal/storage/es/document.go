package es

import (
	"fmt"
	"time"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

type reportDocument struct {
	RunID            string            `json:"run_id"`
	Position         int               `json:"position"`
	Question         string            `json:"question"`
	ModelResponse    string            `json:"model_response"`
	ExpectedAnswer   string            `json:"expected_answer"`
	CosineSimilarity *float64          `json:"cosine_similarity,omitempty"`
	ExactMatch       bool              `json:"exact_match"`
	FuzzyComparison  string            `json:"fuzzy_comparison"`
	IncludesMatch    bool              `json:"includes_match"`
	LLMAccuracy      *float64          `json:"llm_accuracy,omitempty"`
	LLMRelevance     *float64          `json:"llm_relevance,omitempty"`
	LLMBias          *float64          `json:"llm_bias,omitempty"`
	LLMExplanation   string            `json:"llm_explanation,omitempty"`
	Errors           map[string]string `json:"errors,omitempty"`
	IndexedAt        time.Time         `json:"indexed_at"`
}

func documentID(runID uuid.UUID, position int) string {
	return fmt.Sprintf("%s-%d", runID, position)
}

func toDocument(runID uuid.UUID, position int, r domain.ReportRow, now time.Time) reportDocument {
	return reportDocument{
		RunID:            runID.String(),
		Position:         position,
		Question:         r.Question,
		ModelResponse:    r.ModelResponse,
		ExpectedAnswer:   r.ExpectedAnswer,
		CosineSimilarity: r.CosineSimilarity,
		ExactMatch:       r.ExactMatch,
		FuzzyComparison:  r.FuzzyComparison,
		IncludesMatch:    r.IncludesMatch,
		LLMAccuracy:      r.LLMAccuracy,
		LLMRelevance:     r.LLMRelevance,
		LLMBias:          r.LLMBias,
		LLMExplanation:   r.LLMExplanation,
		Errors:           r.Errors,
		IndexedAt:        now,
	}
}

func (d reportDocument) row() domain.ReportRow {
	return domain.ReportRow{
		Question:         d.Question,
		ModelResponse:    d.ModelResponse,
		ExpectedAnswer:   d.ExpectedAnswer,
		CosineSimilarity: d.CosineSimilarity,
		ExactMatch:       d.ExactMatch,
		FuzzyComparison:  d.FuzzyComparison,
		IncludesMatch:    d.IncludesMatch,
		LLMAccuracy:      d.LLMAccuracy,
		LLMRelevance:     d.LLMRelevance,
		LLMBias:          d.LLMBias,
		LLMExplanation:   d.LLMExplanation,
		Errors:           d.Errors,
	}
}

func buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"run_id":            types.NewKeywordProperty(),
			"position":          types.NewIntegerNumberProperty(),
			"question":          textWithKeyword(),
			"model_response":    textWithKeyword(),
			"expected_answer":   textWithKeyword(),
			"cosine_similarity": types.NewDoubleNumberProperty(),
			"exact_match":       types.NewBooleanProperty(),
			"fuzzy_comparison":  types.NewKeywordProperty(),
			"includes_match":    types.NewBooleanProperty(),
			"llm_accuracy":      types.NewDoubleNumberProperty(),
			"llm_relevance":     types.NewDoubleNumberProperty(),
			"llm_bias":          types.NewDoubleNumberProperty(),
			"llm_explanation":   types.NewTextProperty(),
			"errors":            types.NewFlattenedProperty(),
			"indexed_at":        types.NewDateProperty(),
		},
	}
}

func textWithKeyword() types.Property {
	textProp := types.NewTextProperty()
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
