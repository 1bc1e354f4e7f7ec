package shared

import (
	"sort"
	"time"
)

// MergeByDateDesc appends incoming to existing and re-sorts the merged slice
// by the extracted date, newest first. Records without a date (zero time)
// sort last. The same comparator serves initial loads and page appends so the
// two code paths cannot drift.
func MergeByDateDesc[T any](existing, incoming []T, dateOf func(T) time.Time) []T {
	merged := make([]T, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	merged = append(merged, incoming...)
	sort.SliceStable(merged, func(i, j int) bool {
		return dateOf(merged[i]).After(dateOf(merged[j]))
	})
	return merged
}
