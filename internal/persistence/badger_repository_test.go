package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

func testRepo(t *testing.T) StateRepository {
	t.Helper()
	repo, err := NewBadgerRepository(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testSnapshot(botID string) models.BotSnapshot {
	return models.BotSnapshot{
		BotID:       botID,
		Symbol:      "BTCUSDT",
		Mode:        models.ModeDemo,
		Active:      true,
		LowerPrice:  100,
		UpperPrice:  200,
		GridCount:   5,
		Investment:  500,
		GridLevels:  []float64{100, 120, 140, 160, 180, 200},
		Profit:      12.34,
		TotalTrades: 7,
		OpenOrders:  3,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveAndLoadSnapshots(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.SaveSnapshot(testSnapshot("grid_1")))
	require.NoError(t, repo.SaveSnapshot(testSnapshot("grid_2")))

	snaps, err := repo.LoadSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	byID := make(map[string]models.BotSnapshot, len(snaps))
	for _, s := range snaps {
		byID[s.BotID] = s
	}
	got, ok := byID["grid_1"]
	require.True(t, ok)
	assert.Equal(t, 12.34, got.Profit)
	assert.Equal(t, []float64{100, 120, 140, 160, 180, 200}, got.GridLevels)
	assert.Equal(t, 7, got.TotalTrades)
	assert.True(t, got.Active)
}

func TestSaveSnapshotOverwrites(t *testing.T) {
	repo := testRepo(t)

	first := testSnapshot("grid_1")
	require.NoError(t, repo.SaveSnapshot(first))

	second := first
	second.Profit = 99.99
	second.TotalTrades = 20
	second.Active = false
	require.NoError(t, repo.SaveSnapshot(second))

	snaps, err := repo.LoadSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 1, "one key per bot, the newest snapshot wins")
	assert.Equal(t, 99.99, snaps[0].Profit)
	assert.Equal(t, 20, snaps[0].TotalTrades)
	assert.False(t, snaps[0].Active)
}

func TestLoadSnapshotsEmpty(t *testing.T) {
	repo := testRepo(t)

	snaps, err := repo.LoadSnapshots()
	require.NoError(t, err)
	assert.Empty(t, snaps)
}
