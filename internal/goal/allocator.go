// Package goal implements the savings-goal allocator: a from-scratch
// replay that redistributes the value of skipped impulses across
// active goals, keyed by a persisted impulse-to-goal contribution map.
package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thinktwice-app/thinktwice/internal/common"
	"github.com/thinktwice-app/thinktwice/internal/model"
	"github.com/thinktwice-app/thinktwice/internal/service"
)

// Allocator owns the goal-contributions side-table: the only durable
// state that decides which goal "claims" an impulse across recomputes.
//
// Reallocate is a read-modify-write on that side-table; overlapping
// concurrent calls can overwrite each other's contribution maps, so
// callers must serialize Reallocate per logical session.
type Allocator struct {
	store service.LedgerStore
	now   func() time.Time
}

// NewAllocator creates an allocator over the given side-table store.
func NewAllocator(store service.LedgerStore) *Allocator {
	return &Allocator{
		store: store,
		now:   time.Now,
	}
}

// Reallocate replays the full log against the given goals and returns
// them with recomputed amounts and completion state. There is no
// incremental path: every call resets all derived amounts and replays
// every cancelled impulse in log order.
//
// When a skipped impulse matches several goals its value is split
// evenly across all of them in memory, but the durable binding records
// only the first match. That divergence is deliberate and preserved
// here; resolving it either way is a product decision.
func (a *Allocator) Reallocate(ctx context.Context, goals []model.SavingsGoal, impulses []model.Impulse) ([]model.SavingsGoal, error) {
	contributions := a.loadContributions(ctx)

	updated := make([]model.SavingsGoal, len(goals))
	copy(updated, goals)

	byID := make(map[string]*model.SavingsGoal, len(updated))
	for i := range updated {
		// CompletedAt is sticky; everything else derived is reset.
		updated[i].CurrentAmount = 0
		updated[i].IsCompleted = false
		byID[updated[i].ID] = &updated[i]
	}

	for i := range impulses {
		impulse := &impulses[i]
		if impulse.Status != model.StatusCancelled || impulse.Price == nil {
			continue
		}
		price := *impulse.Price

		// An existing binding wins as long as its goal still exists
		// and has not completed.
		if contribution, bound := contributions[impulse.ID]; bound {
			if g, ok := byID[contribution.GoalID]; ok && !g.IsCompleted {
				g.CurrentAmount += price
				continue
			}
		}

		var candidates []*model.SavingsGoal
		for j := range updated {
			g := &updated[j]
			if !g.IsActive || g.IsCompleted {
				continue
			}
			if g.Category != nil && *g.Category != impulse.Category {
				continue
			}
			candidates = append(candidates, g)
		}

		switch len(candidates) {
		case 0:
			// Unassigned: the value belongs to no goal this run.
		case 1:
			candidates[0].CurrentAmount += price
			contributions[impulse.ID] = model.GoalContribution{GoalID: candidates[0].ID}
		default:
			share := price / float64(len(candidates))
			for _, g := range candidates {
				g.CurrentAmount += share
			}
			contributions[impulse.ID] = model.GoalContribution{GoalID: candidates[0].ID}
		}
	}

	for i := range updated {
		g := &updated[i]
		if g.CurrentAmount < g.TargetAmount || g.TargetAmount <= 0 {
			continue
		}
		g.IsCompleted = true
		if g.CompletedAt == nil {
			completedAt := a.now()
			g.CompletedAt = &completedAt
		}
	}

	if err := a.store.WriteState(ctx, service.KeyGoalContributions, contributions); err != nil {
		return nil, fmt.Errorf("failed to persist goal contributions: %w", err)
	}

	return updated, nil
}

// Assign manually binds an impulse to a goal, overwriting any previous
// binding. The change takes effect on the next full recompute.
func (a *Allocator) Assign(ctx context.Context, impulseID, goalID string) error {
	contributions := a.loadContributions(ctx)
	contributions[impulseID] = model.GoalContribution{GoalID: goalID}

	if err := a.store.WriteState(ctx, service.KeyGoalContributions, contributions); err != nil {
		return fmt.Errorf("failed to persist goal contributions: %w", err)
	}
	return nil
}

// Contributions returns the persisted impulse-to-goal binding map.
func (a *Allocator) Contributions(ctx context.Context) map[string]model.GoalContribution {
	return a.loadContributions(ctx)
}

func (a *Allocator) loadContributions(ctx context.Context) map[string]model.GoalContribution {
	contributions := make(map[string]model.GoalContribution)
	if err := a.store.ReadState(ctx, service.KeyGoalContributions, &contributions); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			common.LogWarn("recovering from unreadable contribution map", common.Fields{
				"key":   service.KeyGoalContributions,
				"error": err.Error(),
			})
		}
		return make(map[string]model.GoalContribution)
	}
	return contributions
}

// Progress derives the funding view for one goal; percentages clamp to
// 0 for degenerate targets instead of dividing by zero.
func Progress(g model.SavingsGoal) model.GoalProgress {
	var percent float64
	if g.TargetAmount > 0 {
		percent = 100 * g.CurrentAmount / g.TargetAmount
		if percent > 100 {
			percent = 100
		}
	}

	remaining := g.TargetAmount - g.CurrentAmount
	if remaining < 0 {
		remaining = 0
	}

	return model.GoalProgress{
		Goal:      g,
		Percent:   percent,
		Remaining: remaining,
	}
}
