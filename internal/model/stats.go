package model

// UserStats holds aggregate counters derived from a full snapshot of the
// impulse log. Stats are never persisted; they live for the duration of
// one computation and are recomputed fresh on every call.
type UserStats struct {
	ByCategory     map[ImpulseCategory]CategoryStats
	TotalImpulses  int
	CancelledCount int
	ExecutedCount  int
	LockedCount    int
	RegretCount    int
	RegretRate     float64
	TotalSaved     float64
	TotalSpent     float64
	CurrentStreak  int
	LongestStreak  int
}

// CategoryStats is the per-category rollup inside UserStats.
type CategoryStats struct {
	Category       ImpulseCategory
	TotalImpulses  int
	CancelledCount int
	ExecutedCount  int
	RegretCount    int
	RegretRate     float64
	TotalSaved     float64
	TotalSpent     float64
}
