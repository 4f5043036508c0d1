package positions

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/odds"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "positions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAddAndGetPosition(t *testing.T) {
	db := newTestDB(t)

	added, err := db.AddPosition(Position{
		EventID:     "nba-2026-10-18-lal-bos",
		Label:       "Lakers",
		Source:      "bookA",
		DecimalOdds: 3.0,
		Stake:       50,
		FreeBet:     true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.CreatedAt.IsZero())

	got, err := db.GetPosition(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added.ID, got.ID)
	assert.Equal(t, "nba-2026-10-18-lal-bos", got.EventID)
	assert.Equal(t, "Lakers", got.Label)
	assert.Equal(t, "bookA", got.Source)
	assert.Equal(t, 3.0, got.DecimalOdds)
	assert.Equal(t, 50.0, got.Stake)
	assert.True(t, got.FreeBet)
	assert.WithinDuration(t, added.CreatedAt, got.CreatedAt, time.Second)
}

func TestGetPositionNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetPosition("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddPositionInvalid(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name string
		pos  Position
		want error
	}{
		{"Missing event", Position{Label: "A", DecimalOdds: 2, Stake: 10}, ErrInvalidPosition},
		{"Missing label", Position{EventID: "e", DecimalOdds: 2, Stake: 10}, ErrInvalidPosition},
		{"Bad odds", Position{EventID: "e", Label: "A", DecimalOdds: 1, Stake: 10}, odds.ErrInvalidOdds},
		{"Bad stake", Position{EventID: "e", Label: "A", DecimalOdds: 2, Stake: 0}, analysis.ErrInvalidStake},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.AddPosition(tt.pos)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	all, err := db.GetAllPositions()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPositionsByEvent(t *testing.T) {
	db := newTestDB(t)

	for _, p := range []Position{
		{EventID: "e1", Label: "Home", DecimalOdds: 2.1, Stake: 10},
		{EventID: "e1", Label: "Away", DecimalOdds: 1.8, Stake: 20},
		{EventID: "e2", Label: "Over", DecimalOdds: 1.9, Stake: 30},
	} {
		_, err := db.AddPosition(p)
		require.NoError(t, err)
	}

	all, err := db.GetAllPositions()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Over", all[0].Label, "newest first")

	e1, err := db.GetPositionsByEvent("e1")
	require.NoError(t, err)
	require.Len(t, e1, 2)
	for _, p := range e1 {
		assert.Equal(t, "e1", p.EventID)
	}

	none, err := db.GetPositionsByEvent("e3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateAndDeletePosition(t *testing.T) {
	db := newTestDB(t)

	pos, err := db.AddPosition(Position{EventID: "e1", Label: "Home", DecimalOdds: 2.1, Stake: 10})
	require.NoError(t, err)

	require.NoError(t, db.UpdateStake(pos.ID, 25))
	got, err := db.GetPosition(pos.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Stake)

	assert.ErrorIs(t, db.UpdateStake(pos.ID, -5), analysis.ErrInvalidStake)
	assert.ErrorIs(t, db.UpdateStake("missing", 5), ErrNotFound)

	require.NoError(t, db.DeletePosition(pos.ID))
	_, err = db.GetPosition(pos.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeletePosition(pos.ID), ErrNotFound)
}
