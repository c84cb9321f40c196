package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/Priyanshi1908/openQA.ai/internal/domain"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

const (
	ratioThreshold     = 80
	partialThreshold   = 90
	tokenSortThreshold = 80
	tokenSetThreshold  = 80
)

// Ratio is the normalized edit similarity of a and b in [0,100].
// Substitutions cost two, so the score is 100*(len(a)+len(b)-dist)/(len(a)+len(b)).
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	r := levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	return int(math.Round(100 * r))
}

// PartialRatio is the best Ratio between the shorter string and any
// equally long window of the longer one.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	if len(short) == len(long) {
		return Ratio(a, b)
	}

	n := len(short)
	prev := make([]int, n+1)
	cur := make([]int, n+1)

	best := 0
	for start := 0; start+n <= len(long); start++ {
		dist := windowDistance(short, long[start:start+n], prev, cur)
		r := int(math.Round(100 * float64(2*n-dist) / float64(2*n)))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// windowDistance is the edit distance between a and b with unit insertions
// and deletions and substitutions costing two, the same weights Ratio uses.
// prev and cur are scratch rows of len(a)+1 reused across calls.
func windowDistance(a, b []rune, prev, cur []int) int {
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(b); j++ {
		cur[0] = j
		for i := 1; i <= len(a); i++ {
			sub := prev[i-1]
			if a[i-1] != b[j-1] {
				sub += 2
			}
			cur[i] = min(prev[i]+1, cur[i-1]+1, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

// TokenSortRatio compares the processed tokens of a and b after sorting them.
func TokenSortRatio(a, b string) int {
	ta, tb := tokens(a), tokens(b)
	sort.Strings(ta)
	sort.Strings(tb)
	return Ratio(strings.Join(ta, " "), strings.Join(tb, " "))
}

// TokenSetRatio compares the shared tokens of a and b against each side's
// shared-plus-remaining tokens and keeps the best score.
func TokenSetRatio(a, b string) int {
	setA, setB := toSet(tokens(a)), toSet(tokens(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(common, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(
		Ratio(sect, combinedA),
		Ratio(sect, combinedB),
		Ratio(combinedA, combinedB),
	)
}

// Fuzzy computes all four ratios and reduces them to a verdict. Ratio and
// PartialRatio see lowercased input, the token ratios see processed tokens.
func Fuzzy(a, b string) domain.FuzzyScores {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	s := domain.FuzzyScores{
		Ratio:          Ratio(la, lb),
		PartialRatio:   PartialRatio(la, lb),
		TokenSortRatio: TokenSortRatio(a, b),
		TokenSetRatio:  TokenSetRatio(a, b),
		Verdict:        domain.FuzzyDifferent,
	}

	if s.Ratio > ratioThreshold ||
		s.PartialRatio > partialThreshold ||
		s.TokenSortRatio > tokenSortThreshold ||
		s.TokenSetRatio > tokenSetThreshold {
		s.Verdict = domain.FuzzySimilar
	}
	return s
}

// tokens lowercases s, turns every non alphanumeric rune into a separator and splits.
func tokens(s string) []string {
	processed := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Fields(processed)
}

func toSet(ts []string) map[string]bool {
	set := make(map[string]bool, len(ts))
	for _, t := range ts {
		set[t] = true
	}
	return set
}
