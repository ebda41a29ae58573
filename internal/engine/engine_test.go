package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinktwice-app/thinktwice/internal/common"
	"github.com/thinktwice-app/thinktwice/internal/model"
	"github.com/thinktwice-app/thinktwice/internal/storage"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// Helper function to create an engine over a real SQLite database.
func createTestEngine(t *testing.T) (*Engine, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	engine := New(store)
	engine.now = func() time.Time { return testNow }

	return engine, func() { _ = store.Close() }
}

func makeImpulse(id string, category model.ImpulseCategory, price float64, createdAt time.Time) model.Impulse {
	return model.Impulse{
		ID:           id,
		Title:        id,
		Category:     category,
		Price:        &price,
		Emotion:      model.EmotionNone,
		Urgency:      model.UrgencyMedium,
		CreatedAt:    createdAt,
		ReviewAt:     createdAt.Add(48 * time.Hour),
		Status:       model.StatusLocked,
		FinalFeeling: model.FeelingNone,
	}
}

func TestLogAndSkipUnlocksAchievements(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	// 60 hours keeps the streak under three days so no streak
	// achievement muddies the XP total.
	impulse := makeImpulse("imp-1", model.CategoryClothing, 80, testNow.Add(-60*time.Hour))
	require.NoError(t, engine.LogImpulse(ctx, &impulse))
	require.NoError(t, engine.Decide(ctx, "imp-1", model.StatusCancelled))

	// first-log unlocked on logging, first-skip and saved-50 on skipping.
	unlocked := engine.ledger.Unlocked(ctx)
	assert.Contains(t, unlocked, "first-log")
	assert.Contains(t, unlocked, "first-skip")
	assert.Contains(t, unlocked, "saved-50")

	// 10 + 25 + 25 XP, still level 1.
	level := engine.GetUserLevel(ctx)
	assert.Equal(t, 60, level.TotalXP)
	assert.Equal(t, 1, level.Level)

	recent := engine.GetRecentAchievements(ctx)
	require.NotEmpty(t, recent)
	assert.LessOrEqual(t, len(recent), 5)
}

func TestSkippedImpulseFundsGoal(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, engine.CreateGoal(ctx, model.SavingsGoal{
		ID: "vacation", Title: "Vacation", TargetAmount: 500,
		CreatedAt: testNow.Add(-30 * 24 * time.Hour), IsActive: true,
	}))

	impulse := makeImpulse("imp-1", model.CategoryClothing, 80, testNow.Add(-72*time.Hour))
	require.NoError(t, engine.LogImpulse(ctx, &impulse))
	require.NoError(t, engine.Decide(ctx, "imp-1", model.StatusCancelled))

	g, err := engine.GetGoal(ctx, "vacation")
	require.NoError(t, err)
	assert.InDelta(t, 80, g.CurrentAmount, 1e-9)
	assert.False(t, g.IsCompleted)

	progress, err := engine.GetGoalProgress(ctx)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.InDelta(t, 16, progress[0].Percent, 1e-9)
}

func TestDecide_CancelIncrementsPositiveActions(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	assert.Equal(t, 0, engine.PositiveActions(ctx))

	first := makeImpulse("imp-1", model.CategoryFood, 20, testNow.Add(-72*time.Hour))
	second := makeImpulse("imp-2", model.CategoryFood, 20, testNow.Add(-72*time.Hour))
	require.NoError(t, engine.LogImpulse(ctx, &first))
	require.NoError(t, engine.LogImpulse(ctx, &second))

	require.NoError(t, engine.Decide(ctx, "imp-1", model.StatusCancelled))
	assert.Equal(t, 1, engine.PositiveActions(ctx))

	// Executing a purchase is not a positive action.
	require.NoError(t, engine.Decide(ctx, "imp-2", model.StatusExecuted))
	assert.Equal(t, 1, engine.PositiveActions(ctx))

	// Answering the follow-up is, even when the answer is regret.
	rating := 4
	require.NoError(t, engine.RecordFollowUp(ctx, "imp-2", model.FeelingRegret, &rating))
	assert.Equal(t, 2, engine.PositiveActions(ctx))
}

func TestFollowUpFlowsIntoStatsAndScore(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	skipped := makeImpulse("imp-1", model.CategoryFood, 30, testNow.Add(-96*time.Hour))
	// The purchase is recent enough that no streak bonus applies.
	bought := makeImpulse("imp-2", model.CategoryElectronics, 200, testNow.Add(-12*time.Hour))
	require.NoError(t, engine.LogImpulse(ctx, &skipped))
	require.NoError(t, engine.LogImpulse(ctx, &bought))
	require.NoError(t, engine.Decide(ctx, "imp-1", model.StatusCancelled))
	require.NoError(t, engine.Decide(ctx, "imp-2", model.StatusExecuted))
	require.NoError(t, engine.RecordFollowUp(ctx, "imp-2", model.FeelingRegret, nil))

	userStats, err := engine.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, userStats.TotalImpulses)
	assert.Equal(t, 1, userStats.CancelledCount)
	assert.Equal(t, 1, userStats.ExecutedCount)
	assert.Equal(t, 1, userStats.RegretCount)
	assert.InDelta(t, 30, userStats.TotalSaved, 1e-9)
	assert.InDelta(t, 200, userStats.TotalSpent, 1e-9)

	// Base 50, +10 for the skip, -15 for the regretted purchase.
	result, err := engine.GetScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 45, result.Score)
}

func TestDecide_PropagatesTransitionErrors(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	impulse := makeImpulse("imp-1", model.CategoryFood, 20, testNow.Add(-72*time.Hour))
	require.NoError(t, engine.LogImpulse(ctx, &impulse))
	require.NoError(t, engine.Decide(ctx, "imp-1", model.StatusCancelled))

	err := engine.Decide(ctx, "imp-1", model.StatusExecuted)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	// A failed decision leaves the tally untouched.
	assert.Equal(t, 1, engine.PositiveActions(ctx))
}

func TestCheckAchievements_IsIdempotentAcrossCalls(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	impulse := makeImpulse("imp-1", model.CategoryFood, 20, testNow.Add(-72*time.Hour))
	require.NoError(t, engine.LogImpulse(ctx, &impulse))

	before := engine.GetUserLevel(ctx).TotalXP

	result, err := engine.CheckAchievements(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.NewlyUnlocked)
	assert.Equal(t, before, engine.GetUserLevel(ctx).TotalXP)
}

func TestGoalLifecycle(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	g := model.SavingsGoal{
		ID: "fund", Title: "Emergency fund", TargetAmount: 300,
		CreatedAt: testNow, IsActive: true,
	}
	require.NoError(t, engine.CreateGoal(ctx, g))

	goals, err := engine.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	g.Title = "Emergency fund v2"
	g.TargetAmount = 400
	require.NoError(t, engine.UpdateGoal(ctx, g))

	got, err := engine.GetGoal(ctx, "fund")
	require.NoError(t, err)
	assert.Equal(t, "Emergency fund v2", got.Title)
	assert.InDelta(t, 400, got.TargetAmount, 1e-9)

	require.NoError(t, engine.DeleteGoal(ctx, "fund"))
	_, err = engine.GetGoal(ctx, "fund")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, engine.DeleteGoal(ctx, "fund"), common.ErrNotFound)
	assert.ErrorIs(t, engine.UpdateGoal(ctx, g), common.ErrNotFound)
}

func TestAssignContribution_RebindsImpulse(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, engine.CreateGoal(ctx, model.SavingsGoal{
		ID: "first", Title: "First", TargetAmount: 500, CreatedAt: testNow, IsActive: true,
	}))
	require.NoError(t, engine.CreateGoal(ctx, model.SavingsGoal{
		ID: "second", Title: "Second", TargetAmount: 500, CreatedAt: testNow, IsActive: true,
	}))

	impulse := makeImpulse("imp-1", model.CategoryFood, 100, testNow.Add(-72*time.Hour))
	require.NoError(t, engine.LogImpulse(ctx, &impulse))
	require.NoError(t, engine.Decide(ctx, "imp-1", model.StatusCancelled))

	require.NoError(t, engine.AssignContribution(ctx, "imp-1", "second"))

	second, err := engine.GetGoal(ctx, "second")
	require.NoError(t, err)
	assert.InDelta(t, 100, second.CurrentAmount, 1e-9)

	first, err := engine.GetGoal(ctx, "first")
	require.NoError(t, err)
	assert.InDelta(t, 0, first.CurrentAmount, 1e-9)
}

func TestBudgetLifecycleAndProgress(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	b := model.Budget{
		ID: "monthly", Name: "Monthly cap", Type: model.BudgetTypeTotal,
		Period: model.PeriodMonthly, Amount: 100, IsActive: true,
	}
	require.NoError(t, engine.CreateBudget(ctx, b))

	impulse := makeImpulse("imp-1", model.CategoryFood, 95, testNow.Add(-72*time.Hour))
	require.NoError(t, engine.LogImpulse(ctx, &impulse))
	require.NoError(t, engine.Decide(ctx, "imp-1", model.StatusExecuted))

	progress, err := engine.GetBudgetProgress(ctx, "monthly")
	require.NoError(t, err)
	assert.InDelta(t, 95, progress.Spent, 1e-9)
	assert.InDelta(t, 95, progress.PercentageUsed, 1e-9)
	assert.False(t, progress.IsOverBudget)

	alerts, err := engine.GetBudgetAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertCritical, alerts[0].Level)

	b.Amount = 50
	require.NoError(t, engine.UpdateBudget(ctx, b))

	all, err := engine.GetAllBudgetProgress(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsOverBudget)

	require.NoError(t, engine.DeleteBudget(ctx, "monthly"))
	_, err = engine.GetBudgetProgress(ctx, "monthly")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPredictRegret_UsesPersistedHistory(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		impulse := makeImpulse(
			string(rune('a'+i)), model.CategoryElectronics, 100,
			testNow.Add(-time.Duration(72+i*24)*time.Hour),
		)
		require.NoError(t, engine.LogImpulse(ctx, &impulse))
	}

	price := 100.0
	prediction, err := engine.PredictRegret(ctx, model.DraftImpulse{
		Category: model.CategoryElectronics,
		Emotion:  model.EmotionFOMO,
		Price:    &price,
		Hour:     23,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, prediction.Confidence, 1e-9)
	assert.Len(t, prediction.Factors, 5)
	assert.NotEmpty(t, prediction.Message)
}

func TestGetScoreHistory_ReturnsRequestedDays(t *testing.T) {
	engine, cleanup := createTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	impulse := makeImpulse("imp-1", model.CategoryFood, 20, testNow.Add(-96*time.Hour))
	require.NoError(t, engine.LogImpulse(ctx, &impulse))

	points, err := engine.GetScoreHistory(ctx, 7)
	require.NoError(t, err)
	require.Len(t, points, 7)

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].Date.After(points[i-1].Date))
	}
}
