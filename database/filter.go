package database

import "strings"

// searchFilter accumulates WHERE predicates and their bind arguments.
// Predicates compose conjunctively, in the order they were added, which
// keeps the filter pipeline explicit and testable without building SQL
// by string concatenation at the call sites.
type searchFilter struct {
	preds []string
	args  []any
}

func (f *searchFilter) add(pred string, args ...any) {
	f.preds = append(f.preds, pred)
	f.args = append(f.args, args...)
}

func (f *searchFilter) where() string {
	if len(f.preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.preds, " AND ")
}

// escapeLike escapes LIKE wildcards so user input only ever matches as
// a literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// likePattern wraps a query term for substring matching.
func likePattern(s string) string {
	return "%" + escapeLike(s) + "%"
}
