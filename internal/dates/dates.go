// Package dates formats timestamps for Portuguese-speaking users
package dates

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// Relative returns a short label describing t relative to now,
// e.g. "agora", "há 5 minutos", "ontem" or "12/03/2025" for older dates.
// Timestamps in the future are treated as "agora".
func Relative(t, now time.Time) string {
	t = t.In(now.Location())
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "agora"
	case diff < time.Hour:
		return plural(int(diff/time.Minute), "minuto", "minutos")
	case diff < 24*time.Hour && sameDay(t, now):
		return plural(int(diff/time.Hour), "hora", "horas")
	}

	days := daysBetween(t, now)
	switch {
	case days <= 1:
		return "ontem"
	case days < 7:
		return fmt.Sprintf("há %d dias", days)
	default:
		return t.Format(dateLayout)
	}
}

// FormatDate formats t as "02/01/2006 15:04"
func FormatDate(t time.Time) string {
	return t.Format(dateTimeLayout)
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("há 1 %s", singular)
	}
	return fmt.Sprintf("há %d %s", n, pluralForm)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// daysBetween counts calendar days between a and b, ignoring the time of day
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
