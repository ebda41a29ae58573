package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinktwice-app/thinktwice/internal/common"
)

func TestWriteAndReadState(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	in := map[string]int{"alpha": 1, "beta": 2}
	require.NoError(t, store.WriteState(ctx, "test-key", in))

	var out map[string]int
	require.NoError(t, store.ReadState(ctx, "test-key", &out))
	assert.Equal(t, in, out)
}

func TestWriteState_ReplacesPreviousValue(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.WriteState(ctx, "counter", 1))
	require.NoError(t, store.WriteState(ctx, "counter", 42))

	var counter int
	require.NoError(t, store.ReadState(ctx, "counter", &counter))
	assert.Equal(t, 42, counter)
}

func TestReadState_MissingKey(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	var out map[string]int
	err := store.ReadState(context.Background(), "never-written", &out)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReadState_MalformedValue(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Corrupt the stored document behind the API's back.
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO ledger_state (key, value) VALUES ('broken', '{"unclosed')
	`)
	require.NoError(t, err)

	var out map[string]int
	err = store.ReadState(ctx, "broken", &out)
	assert.ErrorIs(t, err, common.ErrStorageRead)
}

func TestReadState_TypeMismatchIsReadError(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.WriteState(ctx, "xp", "lots"))

	var xp int
	err := store.ReadState(ctx, "xp", &xp)
	assert.ErrorIs(t, err, common.ErrStorageRead)
}

func TestState_KeysAreIndependent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.WriteState(ctx, "first", []string{"a"}))
	require.NoError(t, store.WriteState(ctx, "second", []string{"b", "c"}))

	var first, second []string
	require.NoError(t, store.ReadState(ctx, "first", &first))
	require.NoError(t, store.ReadState(ctx, "second", &second))
	assert.Equal(t, []string{"a"}, first)
	assert.Equal(t, []string{"b", "c"}, second)
}

func TestState_RejectsEmptyKey(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	assert.ErrorIs(t, store.WriteState(ctx, "  ", 1), ErrEmptyString)

	var out int
	assert.ErrorIs(t, store.ReadState(ctx, "", &out), ErrEmptyString)
}
