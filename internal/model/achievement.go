package model

import "time"

// AchievementRarity classifies how hard an achievement is to earn.
// Rarity affects presentation only; it never changes unlock logic.
type AchievementRarity string

// Achievement rarity constants.
const (
	RarityCommon    AchievementRarity = "COMMON"
	RarityRare      AchievementRarity = "RARE"
	RarityEpic      AchievementRarity = "EPIC"
	RarityLegendary AchievementRarity = "LEGENDARY"
)

// ConditionKind names one of the closed set of achievement condition
// evaluators. Conditions are tagged variants rather than opaque
// functions so the catalog stays plain data.
type ConditionKind string

// Condition kind constants.
const (
	CondCancelledCount       ConditionKind = "CANCELLED_COUNT"
	CondExecutedCount        ConditionKind = "EXECUTED_COUNT"
	CondTotalSaved           ConditionKind = "TOTAL_SAVED"
	CondCurrentStreak        ConditionKind = "CURRENT_STREAK"
	CondLongestStreak        ConditionKind = "LONGEST_STREAK"
	CondLogSize              ConditionKind = "LOG_SIZE"
	CondCategoryCancelled    ConditionKind = "CATEGORY_CANCELLED_COUNT"
	CondRegretFreeExecutions ConditionKind = "REGRET_FREE_EXECUTIONS"
	CondCleanRate            ConditionKind = "CLEAN_RATE"
)

// Condition is the data form of an achievement's unlock rule: a kind
// plus optional parameters. The evaluator in the achievement package
// maps (kind, stats, log) to a numeric progress value that is compared
// against the definition's threshold.
type Condition struct {
	Kind ConditionKind `json:"kind"`
	// Category scopes CATEGORY_CANCELLED_COUNT to one impulse category.
	Category ImpulseCategory `json:"category,omitempty"`
	// MinLogSize gates ratio-style conditions (CLEAN_RATE) so a
	// two-impulse log cannot unlock a percentage achievement.
	MinLogSize int `json:"min_log_size,omitempty"`
}

// AchievementDefinition is one entry of the static achievement catalog.
type AchievementDefinition struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Rarity      AchievementRarity `json:"rarity"`
	Icon        string            `json:"icon"`
	Condition   Condition         `json:"condition"`
	Threshold   float64           `json:"threshold"`
	XPReward    int               `json:"xp_reward"`
}

// Achievement is an unlocked instance of a catalog definition. At most
// one instance per definition ID ever exists; unlocking is a one-way,
// idempotent transition.
type Achievement struct {
	UnlockedAt  time.Time         `json:"unlocked_at"`
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Rarity      AchievementRarity `json:"rarity"`
	Icon        string            `json:"icon"`
	XPReward    int               `json:"xp_reward"`
}

// AchievementProgress is the recomputed progress view for one catalog
// definition, independent of whether the definition was re-evaluated
// for unlocking.
type AchievementProgress struct {
	Definition AchievementDefinition
	Current    float64
	Percent    float64
	Unlocked   bool
}

// UserLevel is a pure function of total XP: the current level, position
// within it, and distance to the next.
type UserLevel struct {
	Level     int
	TotalXP   int
	XPInLevel int
	XPToNext  int
	Percent   float64
}

// CheckResult reports the outcome of one achievement ledger check.
type CheckResult struct {
	NewlyUnlocked []Achievement
	TotalXP       int
}
