package matching

import (
	"math"
	"unicode/utf8"
)

// DefaultThreshold is the fraction of the accepted answer's length tolerated as typos
const DefaultThreshold = 0.1

// Result describes the outcome of an answer check
type Result struct {
	// Correct reports whether the input is acceptable
	Correct bool
	// Matched is the accepted candidate (as given, not normalised). Empty when incorrect.
	Matched string
	// Distance is the edit distance to the closest candidate
	Distance int
}

// IsAcceptableAnswer checks input against candidates.
//
// An exact match after normalisation is accepted first, in candidate order. Otherwise the closest
// candidate is accepted if its distance is at most floor(len(normalized candidate) * threshold).
// A non-positive or NaN threshold falls back to DefaultThreshold.
func IsAcceptableAnswer(input string, candidates []string, threshold float64) Result {
	if threshold <= 0 || math.IsNaN(threshold) {
		threshold = DefaultThreshold
	}

	normalizedInput := Normalize(input)
	if normalizedInput == "" || len(candidates) == 0 {
		return Result{Distance: -1}
	}

	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = Normalize(c)
		if normalized[i] != "" && normalized[i] == normalizedInput {
			return Result{Correct: true, Matched: c}
		}
	}

	best := Result{Distance: -1}
	bestIndex := -1
	for i, c := range normalized {
		if c == "" {
			continue
		}
		d := Levenshtein(normalizedInput, c)
		if best.Distance < 0 || d < best.Distance {
			best.Distance = d
			bestIndex = i
		}
	}
	if bestIndex < 0 {
		return best
	}

	allowed := int(math.Floor(float64(utf8.RuneCountInString(normalized[bestIndex])) * threshold))
	if best.Distance <= allowed {
		best.Correct = true
		best.Matched = candidates[bestIndex]
	}
	return best
}
