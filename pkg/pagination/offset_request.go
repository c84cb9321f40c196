package pagination

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Offset int `json:"offset" query:"offset"`
	Limit  int `json:"limit" query:"limit"`
}

// Normalize clamps offset to >= 0 and limit to (0, PageMaxSize].
func (r *OffsetRequest) Normalize() {
	if r.Offset < 0 {
		r.Offset = 0
	}
	if r.Limit <= 0 {
		r.Limit = PageDefaultSize
	}
	if r.Limit > PageMaxSize {
		r.Limit = PageMaxSize
	}
}
