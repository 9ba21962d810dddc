package conversation

import (
	"testing"
	"time"

	"harsi-trading-bot/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() Store {
	return NewStore(cache.NewCache(cache.NoExpiration, time.Hour))
}

func TestStore_PutAndGet(t *testing.T) {
	store := newTestStore()

	rec := &Record{UserID: 42, Mode: ModeOrder, Step: StepWaitingSymbol}
	require.NoError(t, store.Put(rec))
	assert.Equal(t, uint64(1), rec.Version)

	got, ok := store.Get(42)
	require.True(t, ok)
	assert.Equal(t, ModeOrder, got.Mode)
	assert.Equal(t, StepWaitingSymbol, got.Step)
	assert.Equal(t, uint64(1), got.Version)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Put(&Record{UserID: 1, Step: StepWaitingSymbol}))

	first, ok := store.Get(1)
	require.True(t, ok)
	first.Step = StepWaitingNotes

	second, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, StepWaitingSymbol, second.Step)
}

func TestStore_StaleVersionRejected(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Put(&Record{UserID: 7, Step: StepWaitingSymbol}))

	// Two deliveries read the same version.
	a, ok := store.Get(7)
	require.True(t, ok)
	b, ok := store.Get(7)
	require.True(t, ok)

	a.Step = StepWaitingDirection
	require.NoError(t, store.Put(a))

	b.Step = StepWaitingEntry
	assert.ErrorIs(t, store.Put(b), ErrStaleState)

	// The first write is what survives.
	got, ok := store.Get(7)
	require.True(t, ok)
	assert.Equal(t, StepWaitingDirection, got.Step)
}

func TestStore_DeletedRecordIsNotResurrected(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Put(&Record{UserID: 9, Step: StepWaitingSymbol}))

	rec, ok := store.Get(9)
	require.True(t, ok)

	store.Delete(9)

	assert.ErrorIs(t, store.Put(rec), ErrStaleState)
	_, ok = store.Get(9)
	assert.False(t, ok)
}

func TestStore_FreshRecordAfterDelete(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Put(&Record{UserID: 3, Mode: ModeOrder, Step: StepWaitingSymbol}))
	store.Delete(3)

	fresh := &Record{UserID: 3, Mode: ModeSurvey, Step: StepWaitingSymbol}
	require.NoError(t, store.Put(fresh))

	got, ok := store.Get(3)
	require.True(t, ok)
	assert.Equal(t, ModeSurvey, got.Mode)
}

func TestStore_UsersAreIsolated(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.Put(&Record{UserID: 1, Step: StepWaitingEntry}))
	require.NoError(t, store.Put(&Record{UserID: 2, Step: StepWaitingNotes}))

	a, ok := store.Get(1)
	require.True(t, ok)
	b, ok := store.Get(2)
	require.True(t, ok)
	assert.Equal(t, StepWaitingEntry, a.Step)
	assert.Equal(t, StepWaitingNotes, b.Step)

	store.Delete(1)
	_, ok = store.Get(1)
	assert.False(t, ok)
	_, ok = store.Get(2)
	assert.True(t, ok)
}
