package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelative(t *testing.T) {
	now := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		t        time.Time
		expected string
	}{
		{name: "seconds ago", t: now.Add(-30 * time.Second), expected: "agora"},
		{name: "future", t: now.Add(time.Hour), expected: "agora"},
		{name: "one minute", t: now.Add(-time.Minute), expected: "há 1 minuto"},
		{name: "minutes", t: now.Add(-45 * time.Minute), expected: "há 45 minutos"},
		{name: "one hour", t: now.Add(-90 * time.Minute), expected: "há 1 hora"},
		{name: "hours same day", t: now.Add(-5 * time.Hour), expected: "há 5 horas"},
		{name: "yesterday evening", t: time.Date(2025, time.March, 11, 23, 0, 0, 0, time.UTC), expected: "ontem"},
		{name: "yesterday morning", t: time.Date(2025, time.March, 11, 8, 0, 0, 0, time.UTC), expected: "ontem"},
		{name: "days", t: time.Date(2025, time.March, 9, 10, 0, 0, 0, time.UTC), expected: "há 3 dias"},
		{name: "older", t: time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC), expected: "01/02/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Relative(tt.t, now))
		})
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, time.March, 2, 9, 5, 0, 0, time.UTC)

	assert.Equal(t, "02/03/2025 09:05", FormatDate(ts))
}
