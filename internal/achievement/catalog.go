// Package achievement implements the achievement ledger: a static,
// data-driven catalog of definitions evaluated against log aggregates,
// with one-way idempotent unlocks and a monotonic XP counter.
package achievement

import (
	"github.com/thinktwice-app/thinktwice/internal/model"
)

// Catalog is the static achievement catalog. Definitions are plain
// data; the unlock rule is a tagged condition kind, never an opaque
// function, so the catalog stays enumerable and testable.
var Catalog = []model.AchievementDefinition{
	{
		ID: "first-skip", Title: "First Skip", Icon: "🛑",
		Description: "Cancel your first impulse after the cool-down.",
		Category:    "control", Rarity: model.RarityCommon,
		Condition: model.Condition{Kind: model.CondCancelledCount},
		Threshold: 1, XPReward: 25,
	},
	{
		ID: "five-skips", Title: "Cooling Off", Icon: "🧊",
		Description: "Cancel five impulses.",
		Category:    "control", Rarity: model.RarityCommon,
		Condition: model.Condition{Kind: model.CondCancelledCount},
		Threshold: 5, XPReward: 50,
	},
	{
		ID: "twenty-five-skips", Title: "Iron Will", Icon: "🛡️",
		Description: "Cancel twenty-five impulses.",
		Category:    "control", Rarity: model.RarityRare,
		Condition: model.Condition{Kind: model.CondCancelledCount},
		Threshold: 25, XPReward: 150,
	},
	{
		ID: "hundred-skips", Title: "Untemptable", Icon: "🏔️",
		Description: "Cancel one hundred impulses.",
		Category:    "control", Rarity: model.RarityLegendary,
		Condition: model.Condition{Kind: model.CondCancelledCount},
		Threshold: 100, XPReward: 500,
	},
	{
		ID: "saved-50", Title: "Pocket Change", Icon: "🪙",
		Description: "Keep 50 in your pocket by skipping impulses.",
		Category:    "savings", Rarity: model.RarityCommon,
		Condition: model.Condition{Kind: model.CondTotalSaved},
		Threshold: 50, XPReward: 25,
	},
	{
		ID: "saved-250", Title: "Rainy Day Fund", Icon: "☔",
		Description: "Save 250 through skipped impulses.",
		Category:    "savings", Rarity: model.RarityCommon,
		Condition: model.Condition{Kind: model.CondTotalSaved},
		Threshold: 250, XPReward: 75,
	},
	{
		ID: "saved-1000", Title: "Serious Saver", Icon: "💰",
		Description: "Save 1,000 through skipped impulses.",
		Category:    "savings", Rarity: model.RarityRare,
		Condition: model.Condition{Kind: model.CondTotalSaved},
		Threshold: 1000, XPReward: 200,
	},
	{
		ID: "saved-5000", Title: "Vault Keeper", Icon: "🏦",
		Description: "Save 5,000 through skipped impulses.",
		Category:    "savings", Rarity: model.RarityEpic,
		Condition: model.Condition{Kind: model.CondTotalSaved},
		Threshold: 5000, XPReward: 400,
	},
	{
		ID: "streak-3", Title: "Three-Day Calm", Icon: "🌱",
		Description: "Go three days without an executed impulse.",
		Category:    "streak", Rarity: model.RarityCommon,
		Condition: model.Condition{Kind: model.CondCurrentStreak},
		Threshold: 3, XPReward: 30,
	},
	{
		ID: "streak-7", Title: "Quiet Week", Icon: "🌿",
		Description: "Go a full week without an executed impulse.",
		Category:    "streak", Rarity: model.RarityRare,
		Condition: model.Condition{Kind: model.CondCurrentStreak},
		Threshold: 7, XPReward: 100,
	},
	{
		ID: "streak-30", Title: "Monk Mode", Icon: "🧘",
		Description: "Go thirty days without an executed impulse.",
		Category:    "streak", Rarity: model.RarityEpic,
		Condition: model.Condition{Kind: model.CondCurrentStreak},
		Threshold: 30, XPReward: 300,
	},
	{
		ID: "best-streak-60", Title: "The Long Quiet", Icon: "🌌",
		Description: "Hold a sixty-day streak at any point.",
		Category:    "streak", Rarity: model.RarityLegendary,
		Condition: model.Condition{Kind: model.CondLongestStreak},
		Threshold: 60, XPReward: 500,
	},
	{
		ID: "first-log", Title: "Noticing", Icon: "📝",
		Description: "Log your first impulse instead of acting on it.",
		Category:    "habit", Rarity: model.RarityCommon,
		Condition: model.Condition{Kind: model.CondLogSize},
		Threshold: 1, XPReward: 10,
	},
	{
		ID: "ten-logs", Title: "Pattern Spotter", Icon: "🔍",
		Description: "Log ten impulses.",
		Category:    "habit", Rarity: model.RarityCommon,
		Condition: model.Condition{Kind: model.CondLogSize},
		Threshold: 10, XPReward: 40,
	},
	{
		ID: "fifty-logs", Title: "Self Historian", Icon: "📚",
		Description: "Log fifty impulses.",
		Category:    "habit", Rarity: model.RarityRare,
		Condition: model.Condition{Kind: model.CondLogSize},
		Threshold: 50, XPReward: 150,
	},
	{
		ID: "electronics-resister", Title: "Gadget Proof", Icon: "🔌",
		Description: "Cancel ten electronics impulses.",
		Category:    "category", Rarity: model.RarityRare,
		Condition: model.Condition{Kind: model.CondCategoryCancelled, Category: model.CategoryElectronics},
		Threshold: 10, XPReward: 120,
	},
	{
		ID: "fashion-resister", Title: "Wardrobe Warden", Icon: "🧥",
		Description: "Cancel ten clothing impulses.",
		Category:    "category", Rarity: model.RarityRare,
		Condition: model.Condition{Kind: model.CondCategoryCancelled, Category: model.CategoryClothing},
		Threshold: 10, XPReward: 120,
	},
	{
		ID: "no-regrets-10", Title: "Chosen Well", Icon: "✨",
		Description: "Make ten purchases you never regretted.",
		Category:    "outcome", Rarity: model.RarityRare,
		Condition: model.Condition{Kind: model.CondRegretFreeExecutions},
		Threshold: 10, XPReward: 100,
	},
	{
		ID: "clean-rate-75", Title: "Mostly Immune", Icon: "🥇",
		Description: "Keep your skip rate at 75% across at least twenty impulses.",
		Category:    "outcome", Rarity: model.RarityEpic,
		Condition: model.Condition{Kind: model.CondCleanRate, MinLogSize: 20},
		Threshold: 75, XPReward: 250,
	},
}

// Evaluate maps a tagged condition to its current numeric progress
// value given the aggregates and the log snapshot. Unknown kinds
// evaluate to 0 and can therefore never unlock.
func Evaluate(cond model.Condition, userStats model.UserStats, impulses []model.Impulse) float64 {
	switch cond.Kind {
	case model.CondCancelledCount:
		return float64(userStats.CancelledCount)
	case model.CondExecutedCount:
		return float64(userStats.ExecutedCount)
	case model.CondTotalSaved:
		return userStats.TotalSaved
	case model.CondCurrentStreak:
		return float64(userStats.CurrentStreak)
	case model.CondLongestStreak:
		return float64(userStats.LongestStreak)
	case model.CondLogSize:
		return float64(len(impulses))
	case model.CondCategoryCancelled:
		return float64(userStats.ByCategory[cond.Category].CancelledCount)
	case model.CondRegretFreeExecutions:
		return float64(userStats.ExecutedCount - userStats.RegretCount)
	case model.CondCleanRate:
		if userStats.TotalImpulses < cond.MinLogSize || userStats.TotalImpulses == 0 {
			return 0
		}
		return 100 * float64(userStats.CancelledCount) / float64(userStats.TotalImpulses)
	default:
		return 0
	}
}
