package matching

import (
	"math"
	"strings"
	"unicode"
)

// Hint levels
const (
	HintFirstLetter = 1
	HintPartial     = 2
	HintFull        = 3
)

// partialRevealRatio is the share of letters revealed at HintPartial
const partialRevealRatio = 0.3

// Hint returns a progressively revealing hint for answer.
//
// Level 1 shows the first character and masks every other non-space character with "_".
// Level 2 reveals about 30% of the letters, evenly spread and always including the first.
// Level 3 and above return the answer. Level 0 or below masks everything.
func Hint(answer string, level int) string {
	if level >= HintFull {
		return answer
	}

	letters := []rune(answer)
	positions := make([]int, 0, len(letters))
	for i, r := range letters {
		if !unicode.IsSpace(r) {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		return answer
	}

	reveal := make(map[int]bool)
	switch {
	case level == HintFirstLetter:
		reveal[positions[0]] = true
	case level == HintPartial:
		count := int(math.Ceil(float64(len(positions)) * partialRevealRatio))
		count = max(count, 1)
		step := float64(len(positions)) / float64(count)
		for k := 0; k < count; k++ {
			reveal[positions[int(float64(k)*step)]] = true
		}
	}

	var b strings.Builder
	for i, r := range letters {
		if unicode.IsSpace(r) || reveal[i] {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}
