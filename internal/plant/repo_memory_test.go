package plant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_IDsAreMonotonicFromOne(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p1, err := repo.Create(ctx, "g_alice", now)
	require.NoError(t, err)
	p2, err := repo.Create(ctx, "g_bob", now)
	require.NoError(t, err)
	p3, err := repo.Create(ctx, "g_alice", now)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), p1.ID)
	assert.Equal(t, uint64(2), p2.ID)
	assert.Equal(t, uint64(3), p3.ID)
}

func TestMemoryRepo_NewPlantStartsAsLiveSeed(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p, err := repo.Create(ctx, "g_alice", now)
	require.NoError(t, err)

	assert.Equal(t, StageSeed, p.Stage)
	assert.Equal(t, FullWater, p.WaterLevel)
	assert.True(t, p.Alive)
	assert.True(t, p.Active)
	assert.Equal(t, now, p.PlantedAt)
	assert.Equal(t, now, p.LastWateredAt)
}

func TestMemoryRepo_OwnerIndexIsAppendOnlyHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p1, _ := repo.Create(ctx, "g_alice", now)
	_, _ = repo.Create(ctx, "g_bob", now)
	p3, _ := repo.Create(ctx, "g_alice", now.Add(time.Minute))

	// Kill one and harvest the other; both stay in the history.
	p1.Kill()
	_, err := repo.Update(ctx, p1)
	require.NoError(t, err)
	p3.Active = false
	_, err = repo.Update(ctx, p3)
	require.NoError(t, err)

	ids, err := repo.OwnerPlantIDs(ctx, "g_alice")
	require.NoError(t, err)
	assert.Equal(t, []uint64{p1.ID, p3.ID}, ids)

	ids, err = repo.OwnerPlantIDs(ctx, "g_nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemoryRepo_GetUnknownReturnsNotOK(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	_, ok, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepo_UpdateUnknownFails(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	_, err := repo.Update(ctx, Plant{ID: 7})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_ListIsSortedByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, "g_alice", now)
		require.NoError(t, err)
	}

	out, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, out, 5)
	for i, p := range out {
		assert.Equal(t, uint64(i+1), p.ID)
	}
}
