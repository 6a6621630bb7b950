// Package progress computes the derived statistics of a user's compass
// entries: streaks, category shares, point totals, levels and tallies.
// Everything here is pure; callers fetch the entries and pick "today".
package progress

import (
	"math"
	"strings"

	"kompas/internal/models"
)

const (
	// Unknown is reported by MostFrequent when no entry has the field set.
	Unknown = "Невідомо"

	DefaultPoints  = 10
	PointsPerLevel = 100
	WeekWindowDays = 7
)

// Field selects one optional text column of an entry.
type Field func(models.CompassEntry) *string

var (
	Physical     Field = func(e models.CompassEntry) *string { return e.PhysicalActivity }
	Emotional    Field = func(e models.CompassEntry) *string { return e.Emotion }
	Intellectual Field = func(e models.CompassEntry) *string { return e.IntellectualActivity }
	Thought      Field = func(e models.CompassEntry) *string { return e.ThoughtOfDay }
	Value        Field = func(e models.CompassEntry) *string { return e.ValueOfDay }
)

func filled(p *string) bool {
	return p != nil && strings.TrimSpace(*p) != ""
}

// Streak counts consecutive calendar days with an entry, walking back from
// today. When today has no entry yet the walk starts at yesterday, so a
// streak stays alive until the day it would break is over. Duplicate dates
// count once and dates after today are ignored.
func Streak(dates []models.Date, today models.Date) int {
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if d.After(today) {
			continue
		}
		seen[d.String()] = struct{}{}
	}
	has := func(d models.Date) bool {
		_, ok := seen[d.String()]
		return ok
	}

	anchor := today
	if !has(anchor) {
		anchor = today.AddDays(-1)
		if !has(anchor) {
			return 0
		}
	}
	streak := 0
	for has(anchor.AddDays(-streak)) {
		streak++
	}
	return streak
}

// StreakOf is Streak over the dates of entries.
func StreakOf(entries []models.CompassEntry, today models.Date) int {
	return Streak(datesOf(entries), today)
}

// LongestStreak returns the longest run of consecutive days found anywhere
// in dates.
func LongestStreak(dates []models.Date) int {
	seen := make(map[string]models.Date, len(dates))
	for _, d := range dates {
		seen[d.String()] = d
	}
	longest := 0
	for _, d := range seen {
		// only start counting at the first day of a run
		if _, ok := seen[d.AddDays(-1).String()]; ok {
			continue
		}
		n := 1
		for {
			if _, ok := seen[d.AddDays(n).String()]; !ok {
				break
			}
			n++
		}
		if n > longest {
			longest = n
		}
	}
	return longest
}

// CategoryPercentage is the rounded share of entries with field set, 0 for
// an empty list.
func CategoryPercentage(entries []models.CompassEntry, field Field) int {
	if len(entries) == 0 {
		return 0
	}
	return percent(CountFilled(entries, field), len(entries))
}

// CountFilled counts entries with field set.
func CountFilled(entries []models.CompassEntry, field Field) int {
	n := 0
	for _, e := range entries {
		if filled(field(e)) {
			n++
		}
	}
	return n
}

// CountEqual counts entries whose field holds exactly value.
func CountEqual(entries []models.CompassEntry, field Field, value string) int {
	n := 0
	for _, e := range entries {
		if v := field(e); v != nil && *v == value {
			n++
		}
	}
	return n
}

// DistinctValues counts the different non-empty values of field.
func DistinctValues(entries []models.CompassEntry, field Field) int {
	seen := map[string]struct{}{}
	for _, e := range entries {
		if v := field(e); filled(v) {
			seen[strings.TrimSpace(*v)] = struct{}{}
		}
	}
	return len(seen)
}

// MostFrequent returns the value of field seen most often. On a tie the
// value encountered first in entries wins, so callers control tie-breaks
// through ordering. Unknown is returned when no entry has the field.
func MostFrequent(entries []models.CompassEntry, field Field) string {
	counts := map[string]int{}
	best, bestCount := Unknown, 0
	for _, e := range entries {
		v := field(e)
		if !filled(v) {
			continue
		}
		key := strings.TrimSpace(*v)
		counts[key]++
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	}
	return best
}

// PointsOf is the points an entry is worth; entries without an explicit
// value earn DefaultPoints.
func PointsOf(e models.CompassEntry) int {
	if e.PointsEarned == nil {
		return DefaultPoints
	}
	return *e.PointsEarned
}

func TotalPoints(entries []models.CompassEntry) int {
	total := 0
	for _, e := range entries {
		total += PointsOf(e)
	}
	return total
}

// AveragePoints is the rounded mean points per entry.
func AveragePoints(entries []models.CompassEntry) int {
	if len(entries) == 0 {
		return 0
	}
	return int(math.Round(float64(TotalPoints(entries)) / float64(len(entries))))
}

// TotalDays counts distinct entry dates.
func TotalDays(entries []models.CompassEntry) int {
	seen := map[string]struct{}{}
	for _, e := range entries {
		seen[e.Date.String()] = struct{}{}
	}
	return len(seen)
}

// WeeklyActivity counts entries dated within [today-7 days, today].
func WeeklyActivity(entries []models.CompassEntry, today models.Date) int {
	from := today.AddDays(-WeekWindowDays)
	n := 0
	for _, e := range entries {
		if !e.Date.Before(from) && !e.Date.After(today) {
			n++
		}
	}
	return n
}

func Level(points int) int {
	if points < 0 {
		return 0
	}
	return points / PointsPerLevel
}

// LevelProgress is the number of points collected towards the next level.
func LevelProgress(points int) int {
	if points < 0 {
		return 0
	}
	return points % PointsPerLevel
}

// Ratio is n as a rounded percentage of goal, capped at 100.
func Ratio(n, goal int) int {
	if goal <= 0 {
		return 0
	}
	p := percent(n, goal)
	if p > 100 {
		return 100
	}
	return p
}

// LastEntryDate returns the latest entry date, or nil without entries.
func LastEntryDate(entries []models.CompassEntry) *models.Date {
	var last *models.Date
	for i := range entries {
		d := entries[i].Date
		if last == nil || d.After(*last) {
			last = &d
		}
	}
	return last
}

func percent(n, total int) int {
	return int(math.Round(100 * float64(n) / float64(total)))
}

func datesOf(entries []models.CompassEntry) []models.Date {
	dates := make([]models.Date, len(entries))
	for i, e := range entries {
		dates[i] = e.Date
	}
	return dates
}
