// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/thinktwice-app/thinktwice/internal/model"
)

// ImpulseSource is the read side of the impulse log collaborator. The
// analytics engines only ever consume full snapshots; no incremental
// interface exists.
type ImpulseSource interface {
	ListImpulses(ctx context.Context) ([]model.Impulse, error)
}

// ImpulseLog is the mutating surface of the impulse log.
type ImpulseLog interface {
	ImpulseSource

	SaveImpulse(ctx context.Context, impulse *model.Impulse) error
	GetImpulse(ctx context.Context, id string) (*model.Impulse, error)
	// UpdateImpulseStatus performs the one-way LOCKED -> CANCELLED or
	// LOCKED -> EXECUTED transition. Any other transition is rejected.
	UpdateImpulseStatus(ctx context.Context, id string, status model.ImpulseStatus, decidedAt time.Time) error
	// RecordFollowUp attaches post-purchase feedback to an EXECUTED
	// impulse. It never changes the impulse status.
	RecordFollowUp(ctx context.Context, id string, feeling model.FinalFeeling, regretRating *int) error
}

// LedgerStore is the key->JSON side-table store owned by the engines.
// Each key is an independent namespace. Reads of missing or malformed
// values must be recovered by the caller with an empty fallback; write
// failures must propagate.
type LedgerStore interface {
	// ReadState unmarshals the JSON value under key into out. It
	// returns common.ErrNotFound (wrapped) when the key is absent and
	// common.ErrStorageRead when the value cannot be decoded.
	ReadState(ctx context.Context, key string, out any) error
	// WriteState marshals v to JSON and stores it under key.
	WriteState(ctx context.Context, key string, v any) error
}

// Storage is the full persistence contract the application wires
// together: the impulse log plus the engines' side-tables.
type Storage interface {
	ImpulseLog
	LedgerStore

	Migrate(ctx context.Context) error
	Close() error
}

// Side-table keys. Each holds one JSON document.
const (
	KeyUnlockedAchievements = "unlocked-achievements"
	KeyTotalXP              = "total-xp"
	KeyRecentAchievements   = "recent-achievements"
	KeyGoals                = "goals"
	KeyGoalContributions    = "goal-contributions"
	KeyBudgets              = "budgets"
	KeyPositiveActions      = "positive-actions"
)
