package optimizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpltools/squad-optimizer/internal/fpl"
)

func TestExactSquadPicksTopScorers(t *testing.T) {
	// One spare candidate per position; with uniform costs the spare is
	// always the position's lowest scorer and must be left out.
	pool := feasiblePool(1)

	opt := NewExactSquad(Config{})
	players, err := opt.Optimise(pool)
	require.NoError(t, err)
	requireValidSquad(t, players)

	selected := names(players)
	for _, position := range fpl.Positions {
		spare := fmt.Sprintf("%s %d", position, fpl.SquadQuota()[position])
		assert.False(t, selected[spare], "spare %s should be excluded", spare)
	}
}

func TestExactSquadRespectsBudget(t *testing.T) {
	pool := feasiblePool(0)
	// A star the budget cannot absorb: 14 teammates cost 700, so anything
	// above 300 is unaffordable despite the enormous score.
	star := Candidate{
		Player: fpl.Player{Name: "FWD star", Position: fpl.Forward, Cost: 301, Club: "Star FC"},
		Score:  10000,
	}
	pool = append(pool, star)

	opt := NewExactSquad(Config{})
	players, err := opt.Optimise(pool)
	require.NoError(t, err)
	requireValidSquad(t, players)
	assert.False(t, names(players)["FWD star"])

	// Dropping the price to 300 makes the star affordable and mandatory.
	pool[len(pool)-1].Player.Cost = 300
	players, err = opt.Optimise(pool)
	require.NoError(t, err)
	requireValidSquad(t, players)
	assert.True(t, names(players)["FWD star"])
}

func TestExactSquadClubCap(t *testing.T) {
	pool := feasiblePool(1)
	// The four best defenders share a club; only three may be taken.
	stacked := 0
	for i := range pool {
		if pool[i].Player.Position == fpl.Defender && stacked < 4 {
			pool[i].Player.Club = "Stacked"
			pool[i].Score = 1000 - float64(stacked)
			stacked++
		}
	}

	opt := NewExactSquad(Config{})
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
}

func TestExactSquadInfeasiblePool(t *testing.T) {
	// A single keeper cannot satisfy the two-keeper quota.
	var pool []Candidate
	for _, c := range feasiblePool(0) {
		if c.Player.Position == fpl.Keeper && c.Player.Name != "GK 0" {
			continue
		}
		pool = append(pool, c)
	}

	opt := NewExactSquad(Config{})
	_, err := opt.Optimise(pool)
	require.Error(t, err)
	assert.True(t, IsInfeasible(err))
}

func TestExactSquadUniqueAssignment(t *testing.T) {
	// Exactly quota candidates per position: one feasible assignment, the
	// whole pool.
	pool := feasiblePool(0)

	opt := NewExactSquad(Config{})
	players, err := opt.Optimise(pool)
	require.NoError(t, err)
	require.Len(t, players, fpl.SquadSize)

	selected := names(players)
	for _, c := range pool {
		assert.True(t, selected[c.Player.Name], c.Player.Name)
	}
}

func TestExactSquadDeterministic(t *testing.T) {
	pool := feasiblePool(2)
	opt := NewExactSquad(Config{})

	first, err := opt.Optimise(pool)
	require.NoError(t, err)
	second, err := opt.Optimise(pool)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExactTeamFormation(t *testing.T) {
	// Midfielders dominate, so the optimum starts all five and fields the
	// minimum three defenders and the best two forwards.
	squad := feasiblePool(0)
	for i := range squad {
		switch squad[i].Player.Position {
		case fpl.Keeper:
			squad[i].Score = 5
		case fpl.Defender:
			squad[i].Score = 10
		case fpl.Midfielder:
			squad[i].Score = 100
		case fpl.Forward:
			squad[i].Score = 90
		}
	}

	opt := NewExactTeam()
	team, err := opt.Optimise(squad)
	require.NoError(t, err)
	require.Len(t, team, fpl.TeamSize)

	assert.Equal(t, 1, countPosition(team, fpl.Keeper))
	assert.Equal(t, 3, countPosition(team, fpl.Defender))
	assert.Equal(t, 5, countPosition(team, fpl.Midfielder))
	assert.Equal(t, 2, countPosition(team, fpl.Forward))
}
