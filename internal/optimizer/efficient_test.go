package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpltools/squad-optimizer/internal/fpl"
)

func TestEfficientFillsQuotasByValue(t *testing.T) {
	pool := feasiblePool(1)

	opt := NewEfficient(Config{})
	players, err := opt.Optimise(pool)
	require.NoError(t, err)
	requireValidSquad(t, players)

	// Uniform costs make value order score order: the spare (lowest scorer)
	// of each position is skipped.
	selected := names(players)
	assert.False(t, selected["GK 2"])
	assert.False(t, selected["DEF 5"])
	assert.False(t, selected["MID 5"])
	assert.False(t, selected["FWD 3"])
}

func TestEfficientSkipsClubCappedCandidates(t *testing.T) {
	pool := feasiblePool(1)
	// Four top-value defenders from one club; the fourth is skipped without
	// starving the quota.
	stacked := 0
	for i := range pool {
		if pool[i].Player.Position == fpl.Defender && stacked < 4 {
			pool[i].Player.Club = "Stacked"
			pool[i].Score = 1000 - float64(stacked)
			stacked++
		}
	}

	opt := NewEfficient(Config{})
	players, err := opt.Optimise(pool)
	require.NoError(t, err)
	requireValidSquad(t, players)

	fromStacked := 0
	for _, p := range players {
		if p.Club == "Stacked" {
			fromStacked++
		}
	}
	assert.Equal(t, fpl.MaxPerClub, fromStacked)
	assert.Equal(t, fpl.SquadQuota()[fpl.Defender], countPosition(players, fpl.Defender))
}

func TestEfficientInfeasibleWhenPositionShort(t *testing.T) {
	var pool []Candidate
	for _, c := range feasiblePool(0) {
		if c.Player.Position == fpl.Forward && c.Player.Name != "FWD 0" {
			continue
		}
		pool = append(pool, c)
	}

	opt := NewEfficient(Config{})
	_, err := opt.Optimise(pool)
	require.Error(t, err)
	assert.True(t, IsInfeasible(err))
}

func TestEfficientDeterministic(t *testing.T) {
	pool := feasiblePool(2)
	opt := NewEfficient(Config{})

	first, err := opt.Optimise(pool)
	require.NoError(t, err)
	second, err := opt.Optimise(pool)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
