package domain

// Page is the text of one document page. Index is zero-based and follows document order.
type Page struct {
	Index int
	Text  string
}

// Batch is a run of consecutive pages concatenated into one generation request.
type Batch struct {
	Index     int
	FirstPage int
	PageCount int
	Text      string
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Flatten concatenates per-batch QA lists preserving batch order.
func Flatten(lists [][]QAPair) []QAPair {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	out := make([]QAPair, 0, total)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
