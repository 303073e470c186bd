package filter

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator performs locale-aware string comparison for title sorts.
// Loose comparison ignores case and diacritic differences the way list
// headers are expected to sort.
var collator = collate.New(language.Und, collate.Loose)

// SortByTitle returns a copy of items ordered lexicographically by
// title using locale-aware comparison. The sort is stable, so entities
// with equal titles keep their snapshot order.
func SortByTitle[T any](items []T, title func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return collator.CompareString(title(out[i]), title(out[j])) < 0
	})
	return out
}

// SortByDate returns a copy of items ordered by date ascending. Stable
// for equal dates.
func SortByDate[T any](items []T, date func(T) time.Time) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return date(out[i]).Before(date(out[j]))
	})
	return out
}
