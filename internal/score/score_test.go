package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinktwice-app/thinktwice/internal/model"
	"github.com/thinktwice-app/thinktwice/internal/stats"
)

func makeImpulse(status model.ImpulseStatus, price float64, createdAt time.Time) model.Impulse {
	return model.Impulse{
		ID:           "impulse-" + createdAt.Format(time.RFC3339Nano),
		Title:        "test impulse",
		Category:     model.CategoryOther,
		Price:        &price,
		CreatedAt:    createdAt,
		ReviewAt:     createdAt.Add(48 * time.Hour),
		Status:       status,
		FinalFeeling: model.FeelingNone,
	}
}

// statsWithoutStreak builds aggregates and zeroes the streak so tests
// can pin the streak bonus independently.
func statsWithoutStreak(impulses []model.Impulse, now time.Time) model.UserStats {
	userStats := stats.Compute(impulses, now)
	userStats.CurrentStreak = 0
	return userStats
}

func TestCompute_EmptyLogIsBaseline(t *testing.T) {
	now := time.Now()
	result := Compute(nil, model.UserStats{}, now)

	assert.Equal(t, 50, result.Score)
	assert.Equal(t, model.TrendStable, result.Trend)
	assert.Equal(t, "Balanced", result.Level)
}

func TestCompute_CancelledOnly(t *testing.T) {
	now := time.Now()

	for _, k := range []int{1, 3, 5, 10} {
		impulses := make([]model.Impulse, 0, k)
		for i := 0; i < k; i++ {
			impulses = append(impulses, makeImpulse(model.StatusCancelled, 10, now.AddDate(0, 0, -30-i)))
		}

		result := Compute(impulses, statsWithoutStreak(impulses, now), now)

		want := 50 + 10*k
		if want > 100 {
			want = 100
		}
		assert.Equal(t, want, result.Score, "k=%d", k)
	}
}

func TestCompute_ExecutedOnly(t *testing.T) {
	now := time.Now()

	for _, k := range []int{1, 5, 10, 15} {
		impulses := make([]model.Impulse, 0, k)
		for i := 0; i < k; i++ {
			impulses = append(impulses, makeImpulse(model.StatusExecuted, 10, now.AddDate(0, 0, -30-i)))
		}

		result := Compute(impulses, statsWithoutStreak(impulses, now), now)

		want := 50 - 5*k
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, result.Score, "k=%d", k)
	}
}

func TestCompute_RegrettedPurchaseCostsFifteen(t *testing.T) {
	now := time.Now()

	cancelled := makeImpulse(model.StatusCancelled, 100, now.AddDate(0, 0, -20))
	bought := makeImpulse(model.StatusExecuted, 200, now.AddDate(0, 0, -15))
	bought.FinalFeeling = model.FeelingRegret

	impulses := []model.Impulse{cancelled, bought}
	result := Compute(impulses, statsWithoutStreak(impulses, now), now)

	// 50 + 10 - 5 - 10 = 45
	assert.Equal(t, 45, result.Score)
}

func TestCompute_RegretRatingThreeCountsAsRegret(t *testing.T) {
	now := time.Now()

	bought := makeImpulse(model.StatusExecuted, 50, now.AddDate(0, 0, -10))
	rating := 3
	bought.RegretRating = &rating

	impulses := []model.Impulse{bought}
	result := Compute(impulses, statsWithoutStreak(impulses, now), now)

	assert.Equal(t, 35, result.Score)
}

func TestCompute_StreakBonusCapped(t *testing.T) {
	now := time.Now()
	impulses := []model.Impulse{makeImpulse(model.StatusCancelled, 10, now.AddDate(0, 0, -60))}

	userStats := statsWithoutStreak(impulses, now)
	userStats.CurrentStreak = 30

	result := Compute(impulses, userStats, now)

	// 50 + 10 + min(20, 60) = 80
	assert.Equal(t, 80, result.Score)
}

func TestCompute_ScoreAlwaysInBounds(t *testing.T) {
	now := time.Now()

	var impulses []model.Impulse
	for i := 0; i < 40; i++ {
		bought := makeImpulse(model.StatusExecuted, 10, now.AddDate(0, 0, -i))
		bought.FinalFeeling = model.FeelingRegret
		impulses = append(impulses, bought)
	}
	result := Compute(impulses, statsWithoutStreak(impulses, now), now)
	assert.Equal(t, 0, result.Score)

	impulses = impulses[:0]
	for i := 0; i < 40; i++ {
		impulses = append(impulses, makeImpulse(model.StatusCancelled, 10, now.AddDate(0, 0, -i)))
	}
	userStats := stats.Compute(impulses, now)
	result = Compute(impulses, userStats, now)
	assert.Equal(t, 100, result.Score)
}

func TestCompute_PreviousScoreReversesRecentWeek(t *testing.T) {
	now := time.Now()

	old := makeImpulse(model.StatusCancelled, 10, now.AddDate(0, 0, -30))
	recent := makeImpulse(model.StatusCancelled, 10, now.AddDate(0, 0, -2))

	impulses := []model.Impulse{old, recent}
	result := Compute(impulses, statsWithoutStreak(impulses, now), now)

	assert.Equal(t, 70, result.Score)
	assert.Equal(t, 60, result.PreviousScore)
	assert.Equal(t, model.TrendImproving, result.Trend)
}

func TestCompute_Deterministic(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	impulses := []model.Impulse{
		makeImpulse(model.StatusCancelled, 10, now.AddDate(0, 0, -9)),
		makeImpulse(model.StatusExecuted, 20, now.AddDate(0, 0, -4)),
	}
	userStats := stats.Compute(impulses, now)

	first := Compute(impulses, userStats, now)
	second := Compute(impulses, userStats, now)
	assert.Equal(t, first, second)
}

func TestLevelBrackets(t *testing.T) {
	tests := []struct {
		level string
		score int
	}{
		{"Impulsive", 0},
		{"Impulsive", 19},
		{"Wavering", 20},
		{"Balanced", 59},
		{"Disciplined", 60},
		{"Master", 80},
		{"Master", 100},
	}

	for _, tt := range tests {
		name, _ := levelFor(tt.score)
		assert.Equal(t, tt.level, name, "score=%d", tt.score)
	}

	_, milestone := levelFor(74)
	assert.Equal(t, "6 points to Master", milestone)

	_, milestone = levelFor(95)
	assert.Empty(t, milestone)
}

func TestHistory_ReconstructsPerDayScores(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	// One cancellation three days ago; nothing else.
	impulses := []model.Impulse{makeImpulse(model.StatusCancelled, 10, now.AddDate(0, 0, -3))}

	points := History(impulses, 5, now)
	require.Len(t, points, 5)

	// Days before the impulse existed score as an empty log.
	assert.Equal(t, 50, points[0].Score)

	// After the cancellation: 50 + 10 + streak bonus counted from the
	// first impulse since nothing was ever executed.
	assert.Equal(t, 60, points[1].Score)
	assert.Equal(t, 66, points[4].Score)

	// Points ascend by day.
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].Date.After(points[i-1].Date))
	}
}

func TestHistory_NoDays(t *testing.T) {
	assert.Nil(t, History(nil, 0, time.Now()))
}
