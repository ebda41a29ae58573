// Package score implements the impulse-control score engine: a pure,
// deterministic reduction of the impulse log to a 0-100 score, a trend
// estimate, and a reconstructed history series.
package score

import (
	"fmt"
	"time"

	"github.com/thinktwice-app/thinktwice/internal/model"
	"github.com/thinktwice-app/thinktwice/internal/stats"
)

const (
	baseScore      = 50
	cancelledBonus = 10
	executedCost   = 5
	regretCost     = 10
	maxStreakBonus = 20
	trendWindow    = 7 * 24 * time.Hour
)

// Level boundaries, lowest first.
var levels = []struct {
	Name string
	Min  int
}{
	{"Impulsive", 0},
	{"Wavering", 20},
	{"Balanced", 40},
	{"Disciplined", 60},
	{"Master", 80},
}

// Compute derives the current impulse-control score from a log
// snapshot and its aggregates. Identical inputs always yield an
// identical result.
func Compute(impulses []model.Impulse, userStats model.UserStats, now time.Time) model.ScoreResult {
	var total int
	for i := range impulses {
		total += contribution(&impulses[i])
	}

	streakBonus := 2 * userStats.CurrentStreak
	if streakBonus > maxStreakBonus {
		streakBonus = maxStreakBonus
	}

	current := clamp(baseScore + total + streakBonus)

	// The previous score is estimated by reversing only the trailing
	// week's impulse contributions, not the streak bonus. It is an
	// approximation, never a stored snapshot.
	var recent int
	cutoff := now.Add(-trendWindow)
	for i := range impulses {
		if impulses[i].CreatedAt.After(cutoff) {
			recent += contribution(&impulses[i])
		}
	}
	previous := clamp(current - recent)

	trend := model.TrendStable
	switch {
	case current > previous:
		trend = model.TrendImproving
	case current < previous:
		trend = model.TrendDeclining
	}

	level, milestone := levelFor(current)

	return model.ScoreResult{
		Score:         current,
		PreviousScore: previous,
		Trend:         trend,
		Level:         level,
		Message:       message(level, trend),
		NextMilestone: milestone,
	}
}

// History reconstructs the score for each of the last days calendar
// days. Each point re-scores the log as of that day's end: only
// impulses created on or before the cutoff count, and the streak is
// recomputed as of the cutoff. Cost is O(days x log size), which is
// fine at personal scale.
func History(impulses []model.Impulse, days int, now time.Time) []model.ScorePoint {
	if days <= 0 {
		return nil
	}

	points := make([]model.ScorePoint, 0, days)
	for d := days - 1; d >= 0; d-- {
		day := now.AddDate(0, 0, -d)
		cutoff := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999999999, day.Location())

		var subset []model.Impulse
		for i := range impulses {
			if !impulses[i].CreatedAt.After(cutoff) {
				subset = append(subset, impulses[i])
			}
		}

		var total int
		for i := range subset {
			total += contribution(&subset[i])
		}

		streakBonus := 2 * stats.CurrentStreak(subset, cutoff)
		if streakBonus > maxStreakBonus {
			streakBonus = maxStreakBonus
		}

		points = append(points, model.ScorePoint{
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
			Score: clamp(baseScore + total + streakBonus),
		})
	}

	return points
}

func contribution(impulse *model.Impulse) int {
	switch impulse.Status {
	case model.StatusCancelled:
		return cancelledBonus
	case model.StatusExecuted:
		if impulse.Regretted() {
			return -(executedCost + regretCost)
		}
		return -executedCost
	default:
		return 0
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func levelFor(score int) (name, nextMilestone string) {
	idx := 0
	for i, l := range levels {
		if score >= l.Min {
			idx = i
		}
	}

	name = levels[idx].Name
	if idx < len(levels)-1 {
		next := levels[idx+1]
		nextMilestone = fmt.Sprintf("%d points to %s", next.Min-score, next.Name)
	}
	return name, nextMilestone
}

func message(level string, trend model.ScoreTrend) string {
	switch trend {
	case model.TrendImproving:
		return fmt.Sprintf("Your control is improving. Keep it up, %s!", level)
	case model.TrendDeclining:
		return fmt.Sprintf("Rough week. A few skipped impulses will get you back on track, %s.", level)
	default:
		return fmt.Sprintf("Holding steady at %s.", level)
	}
}
