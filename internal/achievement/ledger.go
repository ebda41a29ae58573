package achievement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thinktwice-app/thinktwice/internal/common"
	"github.com/thinktwice-app/thinktwice/internal/model"
	"github.com/thinktwice-app/thinktwice/internal/service"
)

// recentLimit caps the most-recent-unlocks ring buffer.
const recentLimit = 5

// Ledger evaluates the catalog against fresh aggregates and maintains
// the persisted unlock state: the unlocked map, the XP counter, and
// the recent-unlocks list.
//
// Check performs a read-modify-write on those side-tables; overlapping
// concurrent Check calls can lose updates, so callers must serialize
// Check per logical session.
type Ledger struct {
	store   service.LedgerStore
	catalog []model.AchievementDefinition
	now     func() time.Time
}

// NewLedger creates a ledger over the default catalog.
func NewLedger(store service.LedgerStore) *Ledger {
	return &Ledger{
		store:   store,
		catalog: Catalog,
		now:     time.Now,
	}
}

// Check evaluates every definition not yet unlocked and unlocks those
// whose condition value has reached the threshold. Already-unlocked
// definitions are skipped entirely, so a second call with unchanged
// inputs unlocks nothing and leaves the XP counter untouched.
func (l *Ledger) Check(ctx context.Context, userStats model.UserStats, impulses []model.Impulse) (model.CheckResult, error) {
	unlocked := l.loadUnlocked(ctx)
	totalXP := l.loadTotalXP(ctx)
	recent := l.loadRecent(ctx)

	var newlyUnlocked []model.Achievement
	for _, def := range l.catalog {
		if _, done := unlocked[def.ID]; done {
			continue
		}
		if Evaluate(def.Condition, userStats, impulses) < def.Threshold {
			continue
		}

		achievement := model.Achievement{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Category:    def.Category,
			Rarity:      def.Rarity,
			Icon:        def.Icon,
			XPReward:    def.XPReward,
			UnlockedAt:  l.now(),
		}

		unlocked[def.ID] = achievement
		totalXP += def.XPReward
		newlyUnlocked = append(newlyUnlocked, achievement)

		// Most-recent-first ring, capped at recentLimit.
		recent = append([]model.Achievement{achievement}, recent...)
		if len(recent) > recentLimit {
			recent = recent[:recentLimit]
		}
	}

	if len(newlyUnlocked) == 0 {
		return model.CheckResult{TotalXP: totalXP}, nil
	}

	// An unlock that only happened in memory would corrupt the
	// ledger's one-way invariant, so write failures propagate.
	if err := l.store.WriteState(ctx, service.KeyUnlockedAchievements, unlocked); err != nil {
		return model.CheckResult{}, fmt.Errorf("failed to persist unlocked achievements: %w", err)
	}
	if err := l.store.WriteState(ctx, service.KeyTotalXP, totalXP); err != nil {
		return model.CheckResult{}, fmt.Errorf("failed to persist total xp: %w", err)
	}
	if err := l.store.WriteState(ctx, service.KeyRecentAchievements, recent); err != nil {
		return model.CheckResult{}, fmt.Errorf("failed to persist recent achievements: %w", err)
	}

	return model.CheckResult{
		NewlyUnlocked: newlyUnlocked,
		TotalXP:       totalXP,
	}, nil
}

// Progress recomputes every definition's current value against its
// threshold. Unlocked definitions are pinned at 100% regardless of
// what the condition evaluates to now.
func (l *Ledger) Progress(ctx context.Context, userStats model.UserStats, impulses []model.Impulse) []model.AchievementProgress {
	unlocked := l.loadUnlocked(ctx)

	progress := make([]model.AchievementProgress, 0, len(l.catalog))
	for _, def := range l.catalog {
		current := Evaluate(def.Condition, userStats, impulses)
		_, done := unlocked[def.ID]

		var percent float64
		switch {
		case done:
			percent = 100
		case def.Threshold > 0:
			percent = 100 * current / def.Threshold
			if percent > 100 {
				percent = 100
			}
		}

		progress = append(progress, model.AchievementProgress{
			Definition: def,
			Current:    current,
			Percent:    percent,
			Unlocked:   done,
		})
	}

	return progress
}

// Unlocked returns the persisted unlock map.
func (l *Ledger) Unlocked(ctx context.Context) map[string]model.Achievement {
	return l.loadUnlocked(ctx)
}

// Recent returns the capped most-recent-first unlock list.
func (l *Ledger) Recent(ctx context.Context) []model.Achievement {
	return l.loadRecent(ctx)
}

// TotalXP returns the persisted XP counter.
func (l *Ledger) TotalXP(ctx context.Context) int {
	return l.loadTotalXP(ctx)
}

// Level returns the user level derived from the persisted XP counter.
func (l *Ledger) Level(ctx context.Context) model.UserLevel {
	return LevelFromXP(l.loadTotalXP(ctx))
}

// Side-table reads recover from missing keys and malformed values with
// empty fallbacks; only genuinely unexpected read errors get logged.

func (l *Ledger) loadUnlocked(ctx context.Context) map[string]model.Achievement {
	unlocked := make(map[string]model.Achievement)
	if err := l.store.ReadState(ctx, service.KeyUnlockedAchievements, &unlocked); err != nil {
		logStateFallback(service.KeyUnlockedAchievements, err)
		return make(map[string]model.Achievement)
	}
	return unlocked
}

func (l *Ledger) loadTotalXP(ctx context.Context) int {
	var totalXP int
	if err := l.store.ReadState(ctx, service.KeyTotalXP, &totalXP); err != nil {
		logStateFallback(service.KeyTotalXP, err)
		return 0
	}
	return totalXP
}

func (l *Ledger) loadRecent(ctx context.Context) []model.Achievement {
	var recent []model.Achievement
	if err := l.store.ReadState(ctx, service.KeyRecentAchievements, &recent); err != nil {
		logStateFallback(service.KeyRecentAchievements, err)
		return nil
	}
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	return recent
}

func logStateFallback(key string, err error) {
	if errors.Is(err, common.ErrNotFound) {
		return
	}
	common.LogWarn("recovering from unreadable ledger state", common.Fields{
		"key":   key,
		"error": err.Error(),
	})
}
