package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kompas/internal/models"
)

func TestSummarize(t *testing.T) {
	entries := []models.CompassEntry{
		{Date: today, Emotion: str("Радість"), PhysicalActivity: str("Йога"), PointsEarned: num(10)},
		{Date: today.AddDays(-1), Emotion: str("Сум"), IntellectualActivity: str(models.ReadingActivity)},
		{Date: today.AddDays(-2), Emotion: str("Радість"), ValueOfDay: str("Будь!")},
		{Date: today.AddDays(-10), PhysicalActivity: str("Йога"), PointsEarned: num(70)},
	}

	s := Summarize(entries, today)
	assert.Equal(t, 4, s.TotalEntries)
	assert.Equal(t, 4, s.TotalDays)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
	assert.Equal(t, 100, s.TotalPoints)
	assert.Equal(t, 25, s.AveragePoints)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 0, s.LevelProgress)
	assert.Equal(t, 3, s.WeeklyActivity)
	assert.Equal(t, 50, s.PhysicalPercentage)
	assert.Equal(t, 75, s.EmotionalPercentage)
	assert.Equal(t, 25, s.IntellectualPercentage)
	assert.Equal(t, "Радість", s.MostFrequentEmotion)
	assert.Equal(t, "Йога", s.MostFrequentPhysicalActivity)
	assert.Equal(t, models.ReadingActivity, s.MostFrequentIntellectualActivity)
	assert.Equal(t, "Будь!", s.MostFrequentValue)
	require.NotNil(t, s.LastEntryDate)
	assert.Equal(t, today.String(), s.LastEntryDate.String())
}

func TestSummarizeRecentKeepsFullStreak(t *testing.T) {
	var entries []models.CompassEntry
	for i := 0; i < 60; i++ {
		e := models.CompassEntry{Date: today.AddDays(-i)}
		if i < 30 {
			e.PhysicalActivity = str("Йога")
		}
		entries = append(entries, e)
	}

	s := SummarizeRecent(entries, 30, today)
	assert.Equal(t, 30, s.TotalEntries)
	assert.Equal(t, 60, s.CurrentStreak)
	assert.Equal(t, 60, s.LongestStreak)
	assert.Equal(t, 8, s.WeeklyActivity)
	assert.Equal(t, 100, s.PhysicalPercentage)
	assert.Equal(t, 300, s.TotalPoints)

	s = SummarizeRecent(entries, 1, today)
	assert.Equal(t, 1, s.TotalEntries)
	assert.Equal(t, 60, s.CurrentStreak)
	assert.Equal(t, 8, s.WeeklyActivity)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, today)
	assert.Zero(t, s.TotalEntries)
	assert.Zero(t, s.CurrentStreak)
	assert.Zero(t, s.PhysicalPercentage)
	assert.Equal(t, Unknown, s.MostFrequentEmotion)
	assert.Equal(t, Unknown, s.MostFrequentValue)
	assert.Nil(t, s.LastEntryDate)
}

func TestAchievements(t *testing.T) {
	var entries []models.CompassEntry
	for i := 0; i < 8; i++ {
		e := entryOn(i)
		e.PhysicalActivity = str("Пробіжка")
		entries = append(entries, e)
	}
	for i, em := range models.Emotions {
		entries[i%len(entries)].Emotion = str(em.Name)
	}

	got := map[string]Achievement{}
	for _, a := range Achievements(entries) {
		got[a.Name] = a
	}
	assert.True(t, got["Початківець"].Unlocked)
	assert.Equal(t, 7, got["Початківець"].Current)
	assert.False(t, got["Спортсмен"].Unlocked)
	assert.Equal(t, 8, got["Спортсмен"].Current)
	assert.False(t, got["Воїн світла"].Unlocked)
	assert.Equal(t, 8, got["Воїн світла"].Current)
	assert.False(t, got["Книголюб"].Unlocked)
	// 9 emotions spread over 8 entries: the last one overwrites the first
	assert.False(t, got["Емоційний інтелект"].Unlocked)
	assert.Len(t, got, 6)
}

func TestImprovementPercent(t *testing.T) {
	assert.Equal(t, 10.0, ImprovementPercent(600, 540, true))
	assert.Equal(t, -10.0, ImprovementPercent(600, 660, true))
	assert.Equal(t, 33.3, ImprovementPercent(30, 40, false))
	assert.Equal(t, 0.0, ImprovementPercent(0, 40, false))
}

func TestFitnessProgress(t *testing.T) {
	assert.Empty(t, FitnessProgress([]models.FitnessTest{{TestNumber: 1}}))

	tests := []models.FitnessTest{
		{TestNumber: 3, Run2400mSeconds: 540, Pushups: 40, Abs: 50, LongJumpCm: 220, Run40mSeconds: 5.7},
		{TestNumber: 1, Run2400mSeconds: 600, Pushups: 30, Abs: 40, LongJumpCm: 200, Run40mSeconds: 6.0},
	}
	rows := FitnessProgress(tests)
	require.Len(t, rows, 5)
	assert.Equal(t, "run_2400m_seconds", rows[0].Metric)
	assert.Equal(t, 10.0, rows[0].Percent)
	assert.Equal(t, 33.3, rows[1].Percent)
	assert.Equal(t, 25.0, rows[2].Percent)
	assert.Equal(t, 10.0, rows[3].Percent)
	assert.Equal(t, 5.0, rows[4].Percent)
}

func TestEnglishAverage(t *testing.T) {
	assert.Equal(t, 78, EnglishAverage(models.EnglishTest{Grammar: 80, Vocabulary: 75, Reading: 77, Listening: 79}))
	assert.Equal(t, 0, EnglishAverage(models.EnglishTest{}))
	assert.Equal(t, 51, EnglishAverage(models.EnglishTest{Grammar: 51, Vocabulary: 51, Reading: 51, Listening: 49}))
}
