package shared

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// FoldContains reports whether haystack contains needle under Unicode case
// folding. An empty needle always matches.
func FoldContains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(foldCaser.String(haystack), foldCaser.String(needle))
}

// FoldEqual reports case-folded equality.
func FoldEqual(a, b string) bool {
	return foldCaser.String(a) == foldCaser.String(b)
}

// SameDay reports whether two timestamps fall on the same calendar day in the
// location of a.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay zeroes the time-of-day component, keeping the location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
