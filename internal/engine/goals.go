package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/thinktwice-app/thinktwice/internal/common"
	"github.com/thinktwice-app/thinktwice/internal/goal"
	"github.com/thinktwice-app/thinktwice/internal/model"
	"github.com/thinktwice-app/thinktwice/internal/service"
)

// ListGoals returns the persisted savings goals.
func (e *Engine) ListGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	return e.loadGoals(ctx), nil
}

// GetGoal returns one goal by ID.
func (e *Engine) GetGoal(ctx context.Context, id string) (*model.SavingsGoal, error) {
	for _, g := range e.loadGoals(ctx) {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, fmt.Errorf("%w: goal %s", common.ErrNotFound, id)
}

// CreateGoal persists a new goal and reruns the allocation replay so
// already-skipped impulses can fund it immediately.
func (e *Engine) CreateGoal(ctx context.Context, g model.SavingsGoal) error {
	goals := append(e.loadGoals(ctx), g)
	if err := e.saveGoals(ctx, goals); err != nil {
		return err
	}

	_, err := e.ReallocateGoals(ctx)
	return err
}

// UpdateGoal replaces a goal's stored fields. CurrentAmount and
// completion state are derived and will be recomputed by the replay
// that follows.
func (e *Engine) UpdateGoal(ctx context.Context, updated model.SavingsGoal) error {
	goals := e.loadGoals(ctx)

	found := false
	for i := range goals {
		if goals[i].ID == updated.ID {
			// The sticky completion timestamp survives edits.
			if updated.CompletedAt == nil {
				updated.CompletedAt = goals[i].CompletedAt
			}
			goals[i] = updated
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: goal %s", common.ErrNotFound, updated.ID)
	}

	if err := e.saveGoals(ctx, goals); err != nil {
		return err
	}

	_, err := e.ReallocateGoals(ctx)
	return err
}

// DeleteGoal removes a goal. Its impulse bindings go stale and fall
// back to candidate matching on the next replay.
func (e *Engine) DeleteGoal(ctx context.Context, id string) error {
	goals := e.loadGoals(ctx)

	kept := goals[:0]
	for _, g := range goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(goals) {
		return fmt.Errorf("%w: goal %s", common.ErrNotFound, id)
	}

	if err := e.saveGoals(ctx, kept); err != nil {
		return err
	}

	_, err := e.ReallocateGoals(ctx)
	return err
}

// ReallocateGoals replays the full log through the allocator and
// persists the recomputed goals.
func (e *Engine) ReallocateGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	impulses, err := e.storage.ListImpulses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read impulse log: %w", err)
	}

	updated, err := e.goals.Reallocate(ctx, e.loadGoals(ctx), impulses)
	if err != nil {
		return nil, err
	}

	if err := e.saveGoals(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// AssignContribution manually binds an impulse to a goal and replays.
func (e *Engine) AssignContribution(ctx context.Context, impulseID, goalID string) error {
	if err := e.goals.Assign(ctx, impulseID, goalID); err != nil {
		return err
	}
	_, err := e.ReallocateGoals(ctx)
	return err
}

// GetGoalProgress derives funding views for every goal.
func (e *Engine) GetGoalProgress(ctx context.Context) ([]model.GoalProgress, error) {
	goals := e.loadGoals(ctx)

	progress := make([]model.GoalProgress, 0, len(goals))
	for _, g := range goals {
		progress = append(progress, goal.Progress(g))
	}
	return progress, nil
}

func (e *Engine) loadGoals(ctx context.Context) []model.SavingsGoal {
	var goals []model.SavingsGoal
	if err := e.storage.ReadState(ctx, service.KeyGoals, &goals); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			common.LogWarn("recovering from unreadable goals", common.Fields{
				"key":   service.KeyGoals,
				"error": err.Error(),
			})
		}
		return nil
	}
	return goals
}

func (e *Engine) saveGoals(ctx context.Context, goals []model.SavingsGoal) error {
	if goals == nil {
		goals = []model.SavingsGoal{}
	}
	if err := e.storage.WriteState(ctx, service.KeyGoals, goals); err != nil {
		return fmt.Errorf("failed to persist goals: %w", err)
	}
	return nil
}
