package progress

import (
	"math"
	"sort"

	"kompas/internal/models"
)

// Goals used by the dashboard progress bars.
const (
	StreakGoal  = 30
	EntriesGoal = 100
)

// Summary is the one stats record shared by the profile, statistics and
// dashboard views.
type Summary struct {
	TotalEntries                     int          `json:"total_entries"`
	TotalDays                        int          `json:"total_days"`
	CurrentStreak                    int          `json:"current_streak"`
	LongestStreak                    int          `json:"longest_streak"`
	TotalPoints                      int          `json:"total_points"`
	AveragePoints                    int          `json:"average_points"`
	Level                            int          `json:"level"`
	LevelProgress                    int          `json:"level_progress"`
	WeeklyActivity                   int          `json:"weekly_activity"`
	PhysicalPercentage               int          `json:"physical_percentage"`
	EmotionalPercentage              int          `json:"emotional_percentage"`
	IntellectualPercentage           int          `json:"intellectual_percentage"`
	MostFrequentEmotion              string       `json:"most_frequent_emotion"`
	MostFrequentPhysicalActivity     string       `json:"most_frequent_physical_activity"`
	MostFrequentIntellectualActivity string       `json:"most_frequent_intellectual_activity"`
	MostFrequentValue                string       `json:"most_frequent_value"`
	LastEntryDate                    *models.Date `json:"last_entry_date"`
}

// Summarize computes every aggregate over entries as of today. Entries are
// expected newest first, which decides most-frequent ties.
func Summarize(entries []models.CompassEntry, today models.Date) Summary {
	points := TotalPoints(entries)
	return Summary{
		TotalEntries:                     len(entries),
		TotalDays:                        TotalDays(entries),
		CurrentStreak:                    StreakOf(entries, today),
		LongestStreak:                    LongestStreak(datesOf(entries)),
		TotalPoints:                      points,
		AveragePoints:                    AveragePoints(entries),
		Level:                            Level(points),
		LevelProgress:                    LevelProgress(points),
		WeeklyActivity:                   WeeklyActivity(entries, today),
		PhysicalPercentage:               CategoryPercentage(entries, Physical),
		EmotionalPercentage:              CategoryPercentage(entries, Emotional),
		IntellectualPercentage:           CategoryPercentage(entries, Intellectual),
		MostFrequentEmotion:              MostFrequent(entries, Emotional),
		MostFrequentPhysicalActivity:     MostFrequent(entries, Physical),
		MostFrequentIntellectualActivity: MostFrequent(entries, Intellectual),
		MostFrequentValue:                MostFrequent(entries, Value),
		LastEntryDate:                    LastEntryDate(entries),
	}
}

// SummarizeRecent summarizes the newest window entries of a history that is
// sorted newest first. Streaks and weekly activity depend on unbroken runs of
// days, so they are taken from the whole history.
func SummarizeRecent(entries []models.CompassEntry, window int, today models.Date) Summary {
	recent := entries
	if window > 0 && len(recent) > window {
		recent = recent[:window]
	}
	s := Summarize(recent, today)
	s.CurrentStreak = StreakOf(entries, today)
	s.LongestStreak = LongestStreak(datesOf(entries))
	s.WeeklyActivity = WeeklyActivity(entries, today)
	return s
}

type Achievement struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Goal        int    `json:"goal"`
	Current     int    `json:"current"`
	Unlocked    bool   `json:"unlocked"`
}

// Achievements evaluates the badge list against a user's entries.
func Achievements(entries []models.CompassEntry) []Achievement {
	longest := LongestStreak(datesOf(entries))
	list := []Achievement{
		{ID: 1, Name: "Початківець", Description: "Заповни Компас 7 днів поспіль", Icon: "🌱", Goal: 7, Current: longest},
		{ID: 2, Name: "Спортсмен", Description: "Запиши 10 фізичних активностей", Icon: "🏃‍♂️", Goal: 10, Current: CountFilled(entries, Physical)},
		{ID: 3, Name: "Книголюб", Description: "Прочитай 5 книг", Icon: "📚", Goal: 5, Current: CountEqual(entries, Intellectual, models.ReadingActivity)},
		{ID: 4, Name: "Емоційний інтелект", Description: "Відзнач усі емоції", Icon: "🧠", Goal: len(models.Emotions), Current: DistinctValues(entries, Emotional)},
		{ID: 5, Name: "Філософ", Description: "Запиши 30 думок дня", Icon: "🤔", Goal: 30, Current: CountFilled(entries, Thought)},
		{ID: 6, Name: "Воїн світла", Description: "Заповнюй Компас 30 днів поспіль", Icon: "⚔️", Goal: 30, Current: longest},
	}
	for i := range list {
		if list[i].Current >= list[i].Goal {
			list[i].Current = list[i].Goal
			list[i].Unlocked = true
		}
	}
	return list
}

// MetricProgress compares the first and the latest result of one fitness
// exercise.
type MetricProgress struct {
	Metric        string  `json:"metric"`
	First         float64 `json:"first"`
	Last          float64 `json:"last"`
	LowerIsBetter bool    `json:"lower_is_better"`
	Percent       float64 `json:"percent"`
}

// ImprovementPercent is the relative improvement from first to last, rounded
// to one decimal. For timed runs a smaller value is an improvement.
func ImprovementPercent(first, last float64, lowerIsBetter bool) float64 {
	if first == 0 {
		return 0
	}
	var p float64
	if lowerIsBetter {
		p = (first - last) / first * 100
	} else {
		p = (last - first) / first * 100
	}
	return math.Round(p*10) / 10
}

// FitnessProgress reports per-exercise progress between the earliest and the
// latest numbered test. Fewer than two tests yield no rows.
func FitnessProgress(tests []models.FitnessTest) []MetricProgress {
	if len(tests) < 2 {
		return []MetricProgress{}
	}
	sorted := make([]models.FitnessTest, len(tests))
	copy(sorted, tests)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TestNumber < sorted[j].TestNumber })
	first, last := sorted[0], sorted[len(sorted)-1]

	metric := func(name string, a, b float64, lower bool) MetricProgress {
		return MetricProgress{Metric: name, First: a, Last: b, LowerIsBetter: lower, Percent: ImprovementPercent(a, b, lower)}
	}
	return []MetricProgress{
		metric("run_2400m_seconds", float64(first.Run2400mSeconds), float64(last.Run2400mSeconds), true),
		metric("pushups", float64(first.Pushups), float64(last.Pushups), false),
		metric("abs", float64(first.Abs), float64(last.Abs), false),
		metric("long_jump_cm", float64(first.LongJumpCm), float64(last.LongJumpCm), false),
		metric("run_40m_seconds", first.Run40mSeconds, last.Run40mSeconds, true),
	}
}

// EnglishAverage is the rounded mean of the four section scores.
func EnglishAverage(t models.EnglishTest) int {
	sum := t.Grammar + t.Vocabulary + t.Reading + t.Listening
	return int(math.Round(float64(sum) / 4))
}
