package pagination

// OffsetResult represents one page of an in-memory sequence
type OffsetResult[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// Slice cuts the page described by req out of all.
func Slice[T any](all []T, req OffsetRequest) *OffsetResult[T] {
	req.Normalize()

	total := len(all)
	start := min(req.Offset, total)
	end := min(start+req.Limit, total)

	items := make([]T, end-start)
	copy(items, all[start:end])

	return &OffsetResult[T]{
		Items:   items,
		Total:   total,
		Offset:  req.Offset,
		Limit:   req.Limit,
		HasMore: end < total,
	}
}
