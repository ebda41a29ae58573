package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thinktwice-app/thinktwice/internal/common"
)

// ReadState loads the JSON document stored under key into out.
//
// A missing key returns common.ErrNotFound and a malformed value
// returns common.ErrStorageRead; callers recover from both by falling
// back to an empty collection, so neither is ever a hard failure.
func (s *SQLiteStorage) ReadState(ctx context.Context, key string, out any) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM ledger_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: state key %s", common.ErrNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to read state %s: %v", common.ErrStorageRead, key, err)
	}

	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("%w: malformed state %s: %v", common.ErrStorageRead, key, err)
	}

	return nil
}

// WriteState stores v as a JSON document under key, replacing any
// previous value. Write failures propagate; the ledger invariants
// depend on an unlock never "happening" in memory only.
func (s *SQLiteStorage) WriteState(ctx context.Context, key string, v any) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: failed to encode state %s: %v", common.ErrStorageWrite, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledger_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("%w: failed to write state %s: %v", common.ErrStorageWrite, key, err)
	}

	return nil
}
