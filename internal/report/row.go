package report

import (
	"github.com/Priyanshi1908/openQA.ai/internal/domain"
)

// Flatten merges a QA pair, the model response and its similarity signals
// into one ReportRow. Judge fields are hoisted to top-level columns; a failed
// signal leaves its columns empty and is named in Errors.
func Flatten(pair domain.QAPair, response string, sim domain.SimilarityResult) domain.ReportRow {
	row := domain.ReportRow{
		Question:        pair.Question,
		ModelResponse:   response,
		ExpectedAnswer:  pair.Answer,
		ExactMatch:      sim.Exact,
		FuzzyComparison: sim.Fuzzy.Verdict.Label(),
		IncludesMatch:   sim.Includes,
	}

	if err := sim.Err(domain.SignalCosine); err != nil {
		row.Errors = withError(row.Errors, string(domain.SignalCosine), err)
	} else {
		row.CosineSimilarity = ptr(sim.Cosine)
	}

	if err := sim.Err(domain.SignalJudge); err != nil {
		row.Errors = withError(row.Errors, string(domain.SignalJudge), err)
	} else {
		row.LLMAccuracy = ptr(sim.Judge.Accuracy)
		row.LLMRelevance = ptr(sim.Judge.Relevance)
		row.LLMBias = ptr(sim.Judge.Bias)
		row.LLMExplanation = sim.Judge.Explanation
	}

	for _, s := range []domain.Signal{domain.SignalExact, domain.SignalIncludes, domain.SignalFuzzy} {
		if err := sim.Err(s); err != nil {
			row.Errors = withError(row.Errors, string(s), err)
		}
	}

	return row
}

// FailedRow is the row for a pair whose candidate answer could not be generated.
func FailedRow(pair domain.QAPair, err error) domain.ReportRow {
	return domain.ReportRow{
		Question:       pair.Question,
		ExpectedAnswer: pair.Answer,
		Errors:         map[string]string{domain.AnswerErrorKey: err.Error()},
	}
}

func withError(errs map[string]string, key string, err error) map[string]string {
	if errs == nil {
		errs = make(map[string]string, 1)
	}
	errs[key] = err.Error()
	return errs
}

func ptr(v float64) *float64 {
	return &v
}
