// Package engine wires the analytics engines to storage and exposes
// the client-facing interface: scoring, prediction, achievements,
// goals, and budgets over a shared impulse log.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thinktwice-app/thinktwice/internal/achievement"
	"github.com/thinktwice-app/thinktwice/internal/common"
	"github.com/thinktwice-app/thinktwice/internal/goal"
	"github.com/thinktwice-app/thinktwice/internal/model"
	"github.com/thinktwice-app/thinktwice/internal/predict"
	"github.com/thinktwice-app/thinktwice/internal/score"
	"github.com/thinktwice-app/thinktwice/internal/service"
	"github.com/thinktwice-app/thinktwice/internal/stats"
)

// Engine orchestrates the five analytics engines over one storage
// instance. Score, prediction, and budget calls are pure views and may
// interleave freely; achievement checks and goal reallocation
// read-modify-write their side-tables and must be serialized by the
// caller per logical session.
type Engine struct {
	storage service.Storage
	ledger  *achievement.Ledger
	goals   *goal.Allocator
	now     func() time.Time
}

// New creates an engine over the given storage.
func New(storage service.Storage) *Engine {
	return &Engine{
		storage: storage,
		ledger:  achievement.NewLedger(storage),
		goals:   goal.NewAllocator(storage),
		now:     time.Now,
	}
}

// snapshot reads the full impulse log and derives fresh aggregates.
func (e *Engine) snapshot(ctx context.Context) ([]model.Impulse, model.UserStats, error) {
	impulses, err := e.storage.ListImpulses(ctx)
	if err != nil {
		return nil, model.UserStats{}, fmt.Errorf("failed to read impulse log: %w", err)
	}
	return impulses, stats.Compute(impulses, e.now()), nil
}

// GetStats returns fresh aggregates over the full log.
func (e *Engine) GetStats(ctx context.Context) (model.UserStats, error) {
	_, userStats, err := e.snapshot(ctx)
	return userStats, err
}

// GetScore computes the current impulse-control score.
func (e *Engine) GetScore(ctx context.Context) (model.ScoreResult, error) {
	impulses, userStats, err := e.snapshot(ctx)
	if err != nil {
		return model.ScoreResult{}, err
	}
	return score.Compute(impulses, userStats, e.now()), nil
}

// GetScoreHistory reconstructs the score series for the last days days.
func (e *Engine) GetScoreHistory(ctx context.Context, days int) ([]model.ScorePoint, error) {
	impulses, err := e.storage.ListImpulses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read impulse log: %w", err)
	}
	return score.History(impulses, days, e.now()), nil
}

// PredictRegret scores a prospective impulse against the log before
// anything is persisted.
func (e *Engine) PredictRegret(ctx context.Context, draft model.DraftImpulse) (model.Prediction, error) {
	impulses, err := e.storage.ListImpulses(ctx)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("failed to read impulse log: %w", err)
	}
	return predict.Predict(draft, impulses), nil
}

// CheckAchievements evaluates the catalog against fresh aggregates,
// unlocking anything newly earned.
func (e *Engine) CheckAchievements(ctx context.Context) (model.CheckResult, error) {
	impulses, userStats, err := e.snapshot(ctx)
	if err != nil {
		return model.CheckResult{}, err
	}
	return e.ledger.Check(ctx, userStats, impulses)
}

// GetAchievementProgress returns every catalog definition's progress.
func (e *Engine) GetAchievementProgress(ctx context.Context) ([]model.AchievementProgress, error) {
	impulses, userStats, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return e.ledger.Progress(ctx, userStats, impulses), nil
}

// GetUserLevel derives the level from the persisted XP counter.
func (e *Engine) GetUserLevel(ctx context.Context) model.UserLevel {
	return e.ledger.Level(ctx)
}

// GetRecentAchievements returns the capped most-recent-unlocks list.
func (e *Engine) GetRecentAchievements(ctx context.Context) []model.Achievement {
	return e.ledger.Recent(ctx)
}

// LogImpulse appends a new impulse to the log and re-derives dependent
// ledgers.
func (e *Engine) LogImpulse(ctx context.Context, impulse *model.Impulse) error {
	if err := e.storage.SaveImpulse(ctx, impulse); err != nil {
		return err
	}
	return e.refresh(ctx)
}

// Decide resolves a cool-down: cancel the impulse or execute the
// purchase. Cancelling counts as a positive action.
func (e *Engine) Decide(ctx context.Context, id string, status model.ImpulseStatus) error {
	if err := e.storage.UpdateImpulseStatus(ctx, id, status, e.now()); err != nil {
		return err
	}

	if status == model.StatusCancelled {
		if err := e.incrementPositiveActions(ctx); err != nil {
			return err
		}
	}

	return e.refresh(ctx)
}

// RecordFollowUp attaches post-purchase feedback to an executed
// impulse. Answering the follow-up counts as a positive action even
// when the answer is regret.
func (e *Engine) RecordFollowUp(ctx context.Context, id string, feeling model.FinalFeeling, regretRating *int) error {
	if err := e.storage.RecordFollowUp(ctx, id, feeling, regretRating); err != nil {
		return err
	}

	if err := e.incrementPositiveActions(ctx); err != nil {
		return err
	}

	return e.refresh(ctx)
}

// refresh re-runs every ledger whose inputs a log mutation can change.
// Skipping a check here would be a correctness bug: a streak or total
// that crossed a threshold must unlock on the very next evaluation.
func (e *Engine) refresh(ctx context.Context) error {
	result, err := e.CheckAchievements(ctx)
	if err != nil {
		return fmt.Errorf("achievement check after mutation failed: %w", err)
	}
	for _, unlocked := range result.NewlyUnlocked {
		slog.Info("Achievement unlocked", "id", unlocked.ID, "title", unlocked.Title, "xp", unlocked.XPReward)
	}

	if _, err := e.ReallocateGoals(ctx); err != nil {
		return fmt.Errorf("goal reallocation after mutation failed: %w", err)
	}

	return nil
}

// PositiveActions returns the persisted positive-action tally. The
// tally is a session-independent persisted counter, used by the client
// layer to gate rating prompts.
func (e *Engine) PositiveActions(ctx context.Context) int {
	var count int
	if err := e.storage.ReadState(ctx, service.KeyPositiveActions, &count); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			common.LogWarn("recovering from unreadable positive-action tally", common.Fields{
				"key":   service.KeyPositiveActions,
				"error": err.Error(),
			})
		}
		return 0
	}
	return count
}

func (e *Engine) incrementPositiveActions(ctx context.Context) error {
	count := e.PositiveActions(ctx) + 1
	if err := e.storage.WriteState(ctx, service.KeyPositiveActions, count); err != nil {
		return fmt.Errorf("failed to persist positive-action tally: %w", err)
	}
	return nil
}
