package similarity

import "strings"

// Exact reports case-insensitive equality.
func Exact(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}

// Includes reports whether either string contains the other, ignoring case.
func Includes(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
