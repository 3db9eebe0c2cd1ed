package fpl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSquad returns 15 players meeting every roster invariant: exact quotas,
// distinct clubs and a total cost of 900.
func validSquad() []Player {
	players := make([]Player, 0, SquadSize)
	i := 0
	for _, position := range Positions {
		for n := 0; n < SquadQuota()[position]; n++ {
			players = append(players, Player{
				Name:     fmt.Sprintf("Player %d", i),
				Position: position,
				Cost:     60,
				Club:     fmt.Sprintf("Club %d", i),
			})
			i++
		}
	}
	return players
}

func TestNewSquadDerivesTeamAndCaptaincy(t *testing.T) {
	squad, err := NewSquad(validSquad())
	require.NoError(t, err)

	assert.Len(t, squad.Squad(), SquadSize)
	assert.Len(t, squad.Team(), TeamSize)

	counts := make(map[Position]int)
	for _, p := range squad.Team() {
		counts[p.Position]++
	}
	assert.Equal(t, 1, counts[Keeper])
	assert.Equal(t, 4, counts[Defender])
	assert.Equal(t, 4, counts[Midfielder])
	assert.Equal(t, 2, counts[Forward])

	team := squad.Team()
	assert.Equal(t, team[0].Name, squad.Captain().Name)
	assert.Equal(t, team[1].Name, squad.ViceCaptain().Name)
	assert.NotEqual(t, squad.Captain().Name, squad.ViceCaptain().Name)
}

func TestSetSquadSize(t *testing.T) {
	players := validSquad()

	var squad Squad
	err := squad.SetSquad(players[:SquadSize-1])
	var rosterErr *InvalidRosterError
	require.ErrorAs(t, err, &rosterErr)

	extra := players[0]
	extra.Name = "Extra Player"
	extra.Club = "Extra Club"
	err = squad.SetSquad(append(append([]Player(nil), players...), extra))
	require.ErrorAs(t, err, &rosterErr)

	require.NoError(t, squad.SetSquad(players))
}

func TestSetSquadPositionQuotas(t *testing.T) {
	players := validSquad()
	// Third keeper at a defender's expense.
	players[2].Position = Keeper

	var squad Squad
	err := squad.SetSquad(players)
	var rosterErr *InvalidRosterError
	require.ErrorAs(t, err, &rosterErr)
}

func TestSetSquadBudgetBoundary(t *testing.T) {
	players := validSquad()
	// 14 players at 66 plus one at 76 is exactly the budget.
	for i := range players {
		players[i].Cost = 66
	}
	players[SquadSize-1].Cost = Budget - 14*66

	var squad Squad
	require.NoError(t, squad.SetSquad(players))
	assert.Equal(t, Budget, squad.SquadCost())

	players[0].Cost++
	err := squad.SetSquad(players)
	var rosterErr *InvalidRosterError
	require.ErrorAs(t, err, &rosterErr)
	// Failed set keeps the last valid roster.
	assert.Equal(t, Budget, squad.SquadCost())
}

func TestSetSquadClubCap(t *testing.T) {
	players := validSquad()
	for i := 0; i < MaxPerClub; i++ {
		players[i].Club = "Stacked"
	}

	var squad Squad
	require.NoError(t, squad.SetSquad(players))

	players[MaxPerClub].Club = "Stacked"
	err := squad.SetSquad(players)
	var rosterErr *InvalidRosterError
	require.ErrorAs(t, err, &rosterErr)
}

func TestSetTeamRejectsNonSubset(t *testing.T) {
	squad, err := NewSquad(validSquad())
	require.NoError(t, err)

	team := squad.Team()
	team[0] = Player{Name: "Outsider", Position: Keeper, Cost: 50, Club: "Elsewhere"}

	var rosterErr *InvalidRosterError
	require.ErrorAs(t, squad.SetTeam(team), &rosterErr)
}

func TestSetTeamFormationFloors(t *testing.T) {
	squad, err := NewSquad(validSquad())
	require.NoError(t, err)

	// 1 GK, 5 DEF, 5 MID and no forward is eleven players but breaks the
	// forward floor.
	var team []Player
	for _, p := range squad.Squad() {
		switch p.Position {
		case Keeper:
			if len(filterPosition(team, Keeper)) < 1 {
				team = append(team, p)
			}
		case Defender, Midfielder:
			team = append(team, p)
		}
	}
	require.Len(t, team, TeamSize)

	var rosterErr *InvalidRosterError
	require.ErrorAs(t, squad.SetTeam(team), &rosterErr)
}

func filterPosition(players []Player, position Position) []Player {
	var out []Player
	for _, p := range players {
		if p.Position == position {
			out = append(out, p)
		}
	}
	return out
}

func TestCaptaincy(t *testing.T) {
	squad, err := NewSquad(validSquad())
	require.NoError(t, err)

	outsider := Player{Name: "Outsider", Position: Forward, Cost: 50, Club: "Elsewhere"}
	var rosterErr *InvalidRosterError
	require.ErrorAs(t, squad.SetCaptain(outsider), &rosterErr)

	team := squad.Team()
	require.NoError(t, squad.SetCaptain(team[2]))
	require.ErrorAs(t, squad.SetViceCaptain(team[2]), &rosterErr)
	require.NoError(t, squad.SetViceCaptain(team[3]))
}

func TestTotalPointsMissingPlayersContributeZero(t *testing.T) {
	squad, err := NewSquad(validSquad())
	require.NoError(t, err)

	points := PointsTable{"Player 0": 100, "Player 1": 50}
	assert.Equal(t, 150.0, squad.SquadTotalPoints(points))

	// Player 1 is the backup keeper and not in the default team.
	assert.Equal(t, 100.0, squad.TeamTotalPoints(points))
}

func TestNewSquadFromRows(t *testing.T) {
	rows := make([]PoolRow, 0, SquadSize)
	for i, p := range validSquad() {
		rows = append(rows, PoolRow{
			FirstName:    "Player",
			SecondName:   fmt.Sprintf("%d", i),
			PositionCode: int(p.Position),
			Cost:         p.Cost,
			Club:         p.Club,
		})
	}
	squad, err := NewSquadFromRows(rows)
	require.NoError(t, err)
	assert.Len(t, squad.Squad(), SquadSize)

	rows[0].PositionCode = 9
	_, err = NewSquadFromRows(rows)
	var rosterErr *InvalidRosterError
	require.ErrorAs(t, err, &rosterErr)
}
