package domain

type Signal string

const (
	SignalExact    Signal = "exact"
	SignalIncludes Signal = "includes"
	SignalFuzzy    Signal = "fuzzy"
	SignalCosine   Signal = "cosine"
	SignalJudge    Signal = "judge"
)

type FuzzyVerdict string

const (
	FuzzySimilar   FuzzyVerdict = "similar"
	FuzzyDifferent FuzzyVerdict = "different"
)

// Label is the human readable form used in report columns.
func (v FuzzyVerdict) Label() string {
	switch v {
	case FuzzySimilar:
		return "Sentences are similar"
	case FuzzyDifferent:
		return "Sentences are different"
	default:
		return ""
	}
}

// FuzzyScores holds the four edit-distance ratios, each in [0,100].
type FuzzyScores struct {
	Ratio          int          `json:"ratio"`
	PartialRatio   int          `json:"partial_ratio"`
	TokenSortRatio int          `json:"token_sort_ratio"`
	TokenSetRatio  int          `json:"token_set_ratio"`
	Verdict        FuzzyVerdict `json:"verdict"`
}

type JudgeVerdict struct {
	Accuracy    float64 `json:"accuracy"`
	Relevance   float64 `json:"relevance"`
	Bias        float64 `json:"bias"`
	Explanation string  `json:"explanation"`
}

// SimilarityResult collects every signal for one candidate/reference pair.
// A signal listed in Errors failed and its value field is left at the zero value.
type SimilarityResult struct {
	Cosine   float64
	Fuzzy    FuzzyScores
	Exact    bool
	Includes bool
	Judge    JudgeVerdict
	Errors   map[Signal]error
}

func (r SimilarityResult) Failed(s Signal) bool {
	_, ok := r.Errors[s]
	return ok
}

func (r SimilarityResult) Err(s Signal) error {
	return r.Errors[s]
}
