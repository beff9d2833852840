package region

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldName returns the key regions are sorted by.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// Compare orders regions by case-insensitive name. Names that fold to the
// same key are tie-broken by exact name and then by id so the order is total.
func Compare(a, b Region) int {
	if c := strings.Compare(FoldName(a.Name), FoldName(b.Name)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}
