package natsort

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	values := []string{"Lista 10", "lista 2", "Lista 1", "Animais", "lista 02b", "Verbos 3", "verbos 21"}

	Sort(values)

	assert.Equal(t, []string{"Animais", "Lista 1", "lista 2", "lista 02b", "Lista 10", "Verbos 3", "verbos 21"}, values)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"a2", "a10", -1},
		{"a10", "a2", 1},
		{"abc", "ABD", -1},
		{"x", "x1", -1},
		{"007", "7", -1}, // equal numerically, byte order decides
		{"same", "same", 0},
		{"unit 9 part 2", "unit 9 part 10", -1},
		{"12345678901234567890", "9", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Compare(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestLess(t *testing.T) {
	assert.True(t, Less("Capítulo 2", "Capítulo 11"))
	assert.False(t, Less("Capítulo 11", "Capítulo 2"))
}
