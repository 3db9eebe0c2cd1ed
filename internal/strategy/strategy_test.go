package strategy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpltools/squad-optimizer/internal/fpl"
	"github.com/fpltools/squad-optimizer/internal/history"
	"github.com/fpltools/squad-optimizer/internal/optimizer"
)

// lastSeason forecasts the most recent season total unchanged.
type lastSeason struct{}

func (lastSeason) Name() string            { return "last_season" }
func (lastSeason) Train([][]float64) error { return nil }
func (lastSeason) Predict(h []float64) (float64, error) {
	if len(h) == 0 {
		return 0, fmt.Errorf("no history")
	}
	return h[len(h)-1], nil
}

// testPool builds quota+1 rows per position with distinct clubs plus a
// matching history table.
func testPool() ([]fpl.PoolRow, history.Table) {
	var rows []fpl.PoolRow
	table := make(history.Table)
	i := 0
	for _, position := range fpl.Positions {
		for n := 0; n < fpl.SquadQuota()[position]+1; n++ {
			row := fpl.PoolRow{
				FirstName:    position.String(),
				SecondName:   fmt.Sprintf("%d", n),
				PositionCode: int(position),
				Cost:         50,
				Club:         fmt.Sprintf("Club %d", i),
			}
			rows = append(rows, row)
			table[row.FullName()] = []float64{float64(100 - n)}
			i++
		}
	}
	return rows, table
}

func TestChooseSquadExcludesBlacklistedPlayers(t *testing.T) {
	rows, table := testPool()

	s := NewPredictorStrategy(lastSeason{}, optimizer.NewEfficient(optimizer.Config{}), table, []string{"GK 0"})
	squad, err := s.ChooseSquad(rows)
	require.NoError(t, err)

	for _, p := range squad.Squad() {
		assert.NotEqual(t, "GK 0", p.Name)
	}
}

func TestChooseSquadSkipsPlayersWithoutHistory(t *testing.T) {
	rows, table := testPool()
	// Without history the best keeper cannot be scored and is dropped.
	delete(table, "GK 0")

	s := NewPredictorStrategy(lastSeason{}, optimizer.NewEfficient(optimizer.Config{}), table, nil)
	squad, err := s.ChooseSquad(rows)
	require.NoError(t, err)

	for _, p := range squad.Squad() {
		assert.NotEqual(t, "GK 0", p.Name)
	}
}

func TestChooseSquadInfeasibleAfterBlacklist(t *testing.T) {
	rows, table := testPool()
	// Removing two of the three keepers starves the quota.
	s := NewPredictorStrategy(lastSeason{}, optimizer.NewEfficient(optimizer.Config{}), table, []string{"GK 0", "GK 1"})
	_, err := s.ChooseSquad(rows)
	require.Error(t, err)
	assert.True(t, optimizer.IsInfeasible(err))
}

func TestWeeklyUpdateReplacesHistories(t *testing.T) {
	rows, table := testPool()

	s := NewPredictorStrategy(lastSeason{}, optimizer.NewEfficient(optimizer.Config{}), table, nil)

	updated := make(history.Table, len(table))
	for name := range table {
		updated[name] = []float64{42}
	}
	require.NoError(t, s.WeeklyUpdate(updated))

	squad, err := s.ChooseSquad(rows)
	require.NoError(t, err)
	assert.Len(t, squad.Squad(), fpl.SquadSize)
}
