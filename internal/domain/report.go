package domain

// ReportRow is the flattened evaluation record of one QA pair.
// Nullable fields are nil when the producing signal failed; Errors names the failed fields.
type ReportRow struct {
	Question         string            `json:"Question"`
	ModelResponse    string            `json:"Model_Response"`
	ExpectedAnswer   string            `json:"Expected_Answer"`
	CosineSimilarity *float64          `json:"Cosine_Similarity"`
	ExactMatch       bool              `json:"Exact_Match"`
	FuzzyComparison  string            `json:"Fuzzy_Comparison"`
	IncludesMatch    bool              `json:"Includes_Match"`
	LLMAccuracy      *float64          `json:"LLM_Accuracy"`
	LLMRelevance     *float64          `json:"LLM_Relevance"`
	LLMBias          *float64          `json:"LLM_Bias"`
	LLMExplanation   string            `json:"LLM_Explanation"`
	Errors           map[string]string `json:"Errors,omitempty"`
}

const AnswerErrorKey = "answer"

func (r ReportRow) HasErrors() bool {
	return len(r.Errors) > 0
}
