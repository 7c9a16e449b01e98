// Package dates implements the pure date-arithmetic helpers of spec.md
// §4.11: picking a WeeklyPlan's startDate from its trainingDays, and
// projecting a scheduled day onto a concrete calendar date. These are
// grounded in the teacher's convention of keeping pure helpers
// (normalizeStringValues, evaluateCondition) free of any executor
// state, living as plain functions rather than methods on a type.
package dates

import (
	"fmt"
	"sort"
	"time"
)

const layout = "2006-01-02"

// FormatDate renders t as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(layout)
}

// ParseDate parses a "YYYY-MM-DD" string, the inverse of FormatDate.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// mod is the mathematical (always non-negative) modulo, since Go's %
// preserves the sign of its left operand.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// StartDate computes a WeeklyPlan's startDate from its trainingDays
// (0=Sunday..6=Saturday, per spec.md §3) and the date the Strategy node
// ran, following the four branches of spec.md §4.11.
func StartDate(trainingDays []int, now time.Time) (string, error) {
	if len(trainingDays) == 0 {
		return "", fmt.Errorf("trainingDays must not be empty")
	}

	sorted := append([]int(nil), trainingDays...)
	sort.Ints(sorted)
	minDay, maxDay := sorted[0], sorted[len(sorted)-1]

	today := int(now.Weekday())

	inTrainingDays := false
	for _, d := range trainingDays {
		if d == today {
			inTrainingDays = true
			break
		}
	}

	var start time.Time
	switch {
	case today > maxDay:
		start = now.AddDate(0, 0, mod(7-today+minDay, 7))
	case inTrainingDays:
		start = now
	case today < minDay:
		start = now.AddDate(0, 0, minDay-today)
	default:
		nextDay := -1
		for _, d := range sorted {
			if d > today {
				nextDay = d
				break
			}
		}
		if nextDay == -1 {
			return "", fmt.Errorf("could not determine next training day after weekday %d in %v", today, trainingDays)
		}
		start = now.AddDate(0, 0, nextDay-today)
	}

	return FormatDate(start), nil
}

// SessionDate computes the calendar date for trainingDays[dayIndexPos],
// the Δ = (targetDay − weekday(startDate)) mod 7 formula of spec.md
// §4.9/§4.11 example E3.
func SessionDate(startDate string, dayIndexPos int, trainingDays []int) (string, error) {
	if dayIndexPos < 0 || dayIndexPos >= len(trainingDays) {
		return "", fmt.Errorf("dayIndexPos %d out of range for %d training days", dayIndexPos, len(trainingDays))
	}
	start, err := ParseDate(startDate)
	if err != nil {
		return "", err
	}

	targetDay := trainingDays[dayIndexPos]
	delta := mod(targetDay-int(start.Weekday()), 7)
	return FormatDate(start.AddDate(0, 0, delta)), nil
}
