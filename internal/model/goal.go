package model

import (
	"time"

	"github.com/google/uuid"
)

// SavingsGoal is a target the user funds with the money from skipped
// impulses. CurrentAmount is derived by the allocator on every
// recompute and must never be hand-edited; CompletedAt is sticky — once
// set it survives later recomputes even if CurrentAmount drops below
// the target again.
type SavingsGoal struct {
	CreatedAt     time.Time        `json:"created_at"`
	TargetDate    *time.Time       `json:"target_date,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	Category      *ImpulseCategory `json:"category,omitempty"`
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	TargetAmount  float64          `json:"target_amount"`
	CurrentAmount float64          `json:"current_amount"`
	IsActive      bool             `json:"is_active"`
	IsCompleted   bool             `json:"is_completed"`
}

// NewSavingsGoal creates an active, unfunded goal.
func NewSavingsGoal(title string, targetAmount float64, category *ImpulseCategory) SavingsGoal {
	return SavingsGoal{
		ID:           uuid.NewString(),
		Title:        title,
		TargetAmount: targetAmount,
		Category:     category,
		CreatedAt:    time.Now(),
		IsActive:     true,
	}
}

// GoalContribution is the durable binding of a skipped impulse's value
// to a specific goal. The allocator persists a map of impulse ID to
// contribution; it is the only state the allocator owns.
type GoalContribution struct {
	GoalID string `json:"goal_id"`
}

// GoalProgress is a derived view of one goal's funding state.
type GoalProgress struct {
	Goal      SavingsGoal
	Percent   float64
	Remaining float64
}
