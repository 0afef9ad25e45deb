package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsight/application/ports"
	"skinsight/domain/routine"
)

func newTestStore(t *testing.T) *UserStore {
	t.Helper()
	store, err := NewUserStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Nil(t, got.Routine, "new users have no routine")
}

func TestCreateDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	_, err = store.Create(ctx, "alice", "other")
	assert.ErrorIs(t, err, ports.ErrDuplicateUsername)
}

func TestGetUnknownUser(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ports.ErrUserNotFound)
}

func TestReplaceRoutineFullOverwrite(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	first := routine.Routine{
		{Title: "AM", Products: []string{"a", "b"}},
		{Title: "PM", Products: []string{"c"}},
	}
	require.NoError(t, store.ReplaceRoutine(ctx, "alice", first))

	got, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first, got.Routine)

	// Replacement does not merge.
	second := routine.Routine{{Title: "PM", Products: []string{"d"}}}
	require.NoError(t, store.ReplaceRoutine(ctx, "alice", second))

	got, err = store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, second, got.Routine)

	// Replacing with the same routine is idempotent.
	require.NoError(t, store.ReplaceRoutine(ctx, "alice", second))
	got, err = store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, second, got.Routine)
}

func TestReplaceRoutineEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	require.NoError(t, store.ReplaceRoutine(ctx, "alice", routine.Routine{}))

	got, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, got.Routine)
	assert.Empty(t, got.Routine)
}

func TestReplaceRoutineUnknownUser(t *testing.T) {
	store := newTestStore(t)

	err := store.ReplaceRoutine(context.Background(), "nobody", routine.Routine{})
	assert.ErrorIs(t, err, ports.ErrUserNotFound)
}
