// Package stats reduces a snapshot of the impulse log into aggregate
// counters. The aggregation is a pure function: nothing here is ever
// persisted, and identical snapshots always produce identical stats.
package stats

import (
	"sort"
	"time"

	"github.com/thinktwice-app/thinktwice/internal/model"
)

// Compute derives UserStats from a full log snapshot at the given
// reference time.
func Compute(impulses []model.Impulse, now time.Time) model.UserStats {
	userStats := model.UserStats{
		ByCategory: make(map[model.ImpulseCategory]model.CategoryStats),
	}

	for i := range impulses {
		impulse := &impulses[i]
		userStats.TotalImpulses++

		cat := userStats.ByCategory[impulse.Category]
		cat.Category = impulse.Category
		cat.TotalImpulses++

		switch impulse.Status {
		case model.StatusCancelled:
			userStats.CancelledCount++
			userStats.TotalSaved += impulse.PriceValue()
			cat.CancelledCount++
			cat.TotalSaved += impulse.PriceValue()
		case model.StatusExecuted:
			userStats.ExecutedCount++
			userStats.TotalSpent += impulse.PriceValue()
			cat.ExecutedCount++
			cat.TotalSpent += impulse.PriceValue()
			if impulse.Regretted() {
				userStats.RegretCount++
				cat.RegretCount++
			}
		case model.StatusLocked:
			userStats.LockedCount++
		}

		userStats.ByCategory[impulse.Category] = cat
	}

	if userStats.ExecutedCount > 0 {
		userStats.RegretRate = float64(userStats.RegretCount) / float64(userStats.ExecutedCount)
	}
	for category, cat := range userStats.ByCategory {
		if cat.ExecutedCount > 0 {
			cat.RegretRate = float64(cat.RegretCount) / float64(cat.ExecutedCount)
			userStats.ByCategory[category] = cat
		}
	}

	userStats.CurrentStreak = CurrentStreak(impulses, now)
	userStats.LongestStreak = longestStreak(impulses, now)

	return userStats
}

// CurrentStreak returns the number of full days since the most recent
// EXECUTED impulse. With no executed impulses the streak runs from the
// first logged impulse; an empty log has no streak at all.
func CurrentStreak(impulses []model.Impulse, now time.Time) int {
	if len(impulses) == 0 {
		return 0
	}

	var anchor time.Time
	for i := range impulses {
		impulse := &impulses[i]
		if impulse.Status == model.StatusExecuted && impulse.CreatedAt.After(anchor) {
			anchor = impulse.CreatedAt
		}
	}
	if anchor.IsZero() {
		anchor = firstCreated(impulses)
	}

	return daysBetween(anchor, now)
}

func longestStreak(impulses []model.Impulse, now time.Time) int {
	if len(impulses) == 0 {
		return 0
	}

	var executed []time.Time
	for i := range impulses {
		if impulses[i].Status == model.StatusExecuted {
			executed = append(executed, impulses[i].CreatedAt)
		}
	}

	first := firstCreated(impulses)
	if len(executed) == 0 {
		return daysBetween(first, now)
	}

	sort.Slice(executed, func(i, j int) bool { return executed[i].Before(executed[j]) })

	longest := daysBetween(first, executed[0])
	for i := 1; i < len(executed); i++ {
		if gap := daysBetween(executed[i-1], executed[i]); gap > longest {
			longest = gap
		}
	}
	if tail := daysBetween(executed[len(executed)-1], now); tail > longest {
		longest = tail
	}

	return longest
}

func firstCreated(impulses []model.Impulse) time.Time {
	first := impulses[0].CreatedAt
	for i := 1; i < len(impulses); i++ {
		if impulses[i].CreatedAt.Before(first) {
			first = impulses[i].CreatedAt
		}
	}
	return first
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
