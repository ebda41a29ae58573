package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/thinktwice-app/thinktwice/internal/budget"
	"github.com/thinktwice-app/thinktwice/internal/common"
	"github.com/thinktwice-app/thinktwice/internal/model"
	"github.com/thinktwice-app/thinktwice/internal/service"
)

// ListBudgets returns the persisted budgets.
func (e *Engine) ListBudgets(ctx context.Context) ([]model.Budget, error) {
	return e.loadBudgets(ctx), nil
}

// CreateBudget persists a new budget.
func (e *Engine) CreateBudget(ctx context.Context, b model.Budget) error {
	return e.saveBudgets(ctx, append(e.loadBudgets(ctx), b))
}

// UpdateBudget replaces a stored budget.
func (e *Engine) UpdateBudget(ctx context.Context, updated model.Budget) error {
	budgets := e.loadBudgets(ctx)

	for i := range budgets {
		if budgets[i].ID == updated.ID {
			budgets[i] = updated
			return e.saveBudgets(ctx, budgets)
		}
	}
	return fmt.Errorf("%w: budget %s", common.ErrNotFound, updated.ID)
}

// DeleteBudget removes a budget.
func (e *Engine) DeleteBudget(ctx context.Context, id string) error {
	budgets := e.loadBudgets(ctx)

	kept := budgets[:0]
	for _, b := range budgets {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(budgets) {
		return fmt.Errorf("%w: budget %s", common.ErrNotFound, id)
	}
	return e.saveBudgets(ctx, kept)
}

// GetBudgetProgress computes the current-window spend view for one budget.
func (e *Engine) GetBudgetProgress(ctx context.Context, id string) (model.BudgetProgress, error) {
	for _, b := range e.loadBudgets(ctx) {
		if b.ID != id {
			continue
		}
		impulses, err := e.storage.ListImpulses(ctx)
		if err != nil {
			return model.BudgetProgress{}, fmt.Errorf("failed to read impulse log: %w", err)
		}
		return budget.Progress(b, impulses, e.now()), nil
	}
	return model.BudgetProgress{}, fmt.Errorf("%w: budget %s", common.ErrNotFound, id)
}

// GetAllBudgetProgress computes spend views for every stored budget.
func (e *Engine) GetAllBudgetProgress(ctx context.Context) ([]model.BudgetProgress, error) {
	budgets := e.loadBudgets(ctx)
	if len(budgets) == 0 {
		return nil, nil
	}

	impulses, err := e.storage.ListImpulses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read impulse log: %w", err)
	}

	progress := make([]model.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		progress = append(progress, budget.Progress(b, impulses, e.now()))
	}
	return progress, nil
}

// GetBudgetAlerts regenerates threshold alerts for all active budgets.
func (e *Engine) GetBudgetAlerts(ctx context.Context) ([]model.BudgetAlert, error) {
	budgets := e.loadBudgets(ctx)
	if len(budgets) == 0 {
		return nil, nil
	}

	impulses, err := e.storage.ListImpulses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read impulse log: %w", err)
	}
	return budget.Alerts(budgets, impulses, e.now()), nil
}

func (e *Engine) loadBudgets(ctx context.Context) []model.Budget {
	var budgets []model.Budget
	if err := e.storage.ReadState(ctx, service.KeyBudgets, &budgets); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			common.LogWarn("recovering from unreadable budgets", common.Fields{
				"key":   service.KeyBudgets,
				"error": err.Error(),
			})
		}
		return nil
	}
	return budgets
}

func (e *Engine) saveBudgets(ctx context.Context, budgets []model.Budget) error {
	if budgets == nil {
		budgets = []model.Budget{}
	}
	if err := e.storage.WriteState(ctx, service.KeyBudgets, budgets); err != nil {
		return fmt.Errorf("failed to persist budgets: %w", err)
	}
	return nil
}
