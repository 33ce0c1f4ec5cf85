// Package natsort orders strings the way people expect: "Lista 2" before "Lista 10".
package natsort

import (
	"slices"
	"strings"
	"unicode"
)

// Less reports whether a sorts before b.
// Letters compare case-insensitively and runs of digits compare by numeric value.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Compare returns -1, 0 or 1 comparing a and b in natural order
func Compare(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			endA := digitRunEnd(ra, i)
			endB := digitRunEnd(rb, j)
			if c := compareNumbers(ra[i:endA], rb[j:endB]); c != 0 {
				return c
			}
			i, j = endA, endB
			continue
		}
		la, lb := unicode.ToLower(ca), unicode.ToLower(cb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		i++
		j++
	}

	switch {
	case len(ra)-i < len(rb)-j:
		return -1
	case len(ra)-i > len(rb)-j:
		return 1
	}
	// Equal ignoring case: fall back to a byte comparison for a stable total order
	return strings.Compare(a, b)
}

// Sort sorts a slice of strings in natural order
func Sort(values []string) {
	slices.SortStableFunc(values, Compare)
}

func digitRunEnd(r []rune, start int) int {
	end := start
	for end < len(r) && unicode.IsDigit(r[end]) {
		end++
	}
	return end
}

// compareNumbers compares two digit runs by value without converting them to integers
func compareNumbers(a, b []rune) int {
	a = trimLeadingZeros(a)
	b = trimLeadingZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for k := range a {
		if a[k] != b[k] {
			if a[k] < b[k] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func trimLeadingZeros(r []rune) []rune {
	for len(r) > 1 && r[0] == '0' {
		r = r[1:]
	}
	return r
}
