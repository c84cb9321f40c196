package report

import (
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/Priyanshi1908/openQA.ai/pkg/utils"
)

type Summary struct {
	Rows          int            `json:"rows"`
	ExactMatches  int            `json:"exact_matches"`
	Includes      int            `json:"includes_matches"`
	FuzzySimilar  int            `json:"fuzzy_similar"`
	MeanCosine    float64        `json:"mean_cosine"`
	MeanAccuracy  float64        `json:"mean_accuracy"`
	MeanRelevance float64        `json:"mean_relevance"`
	MeanBias      float64        `json:"mean_bias"`
	Errors        map[string]int `json:"errors,omitempty"`
}

// Summarize aggregates rows. Means only count rows where the signal succeeded.
func Summarize(rows []domain.ReportRow) Summary {
	s := Summary{Rows: len(rows)}

	var cosineSum, accSum, relSum, biasSum float64
	var cosineN, judgeN int

	for _, r := range rows {
		if _, failed := r.Errors[domain.AnswerErrorKey]; !failed {
			if r.ExactMatch {
				s.ExactMatches++
			}
			if r.IncludesMatch {
				s.Includes++
			}
			if r.FuzzyComparison == domain.FuzzySimilar.Label() {
				s.FuzzySimilar++
			}
		}
		if r.CosineSimilarity != nil {
			cosineSum += *r.CosineSimilarity
			cosineN++
		}
		if r.LLMAccuracy != nil && r.LLMRelevance != nil && r.LLMBias != nil {
			accSum += *r.LLMAccuracy
			relSum += *r.LLMRelevance
			biasSum += *r.LLMBias
			judgeN++
		}
		for k := range r.Errors {
			if s.Errors == nil {
				s.Errors = make(map[string]int)
			}
			s.Errors[k]++
		}
	}

	if cosineN > 0 {
		s.MeanCosine = utils.RoundDecimal(cosineSum/float64(cosineN), 4)
	}
	if judgeN > 0 {
		n := float64(judgeN)
		s.MeanAccuracy = utils.RoundDecimal(accSum/n, 4)
		s.MeanRelevance = utils.RoundDecimal(relSum/n, 4)
		s.MeanBias = utils.RoundDecimal(biasSum/n, 4)
	}

	return s
}
