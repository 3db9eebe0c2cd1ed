package optimizer

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fpltools/squad-optimizer/internal/fpl"
	"github.com/fpltools/squad-optimizer/pkg/logger"
)

// ExactSquad selects the squad by integer programming: one binary variable
// per candidate, maximizing summed forecast score subject to the budget cap,
// the exact per-position quotas and the per-club cap. Objective ties are
// broken by the deterministic branch order documented on binaryProgram.
type ExactSquad struct {
	cfg Config
	log *logrus.Entry
}

func NewExactSquad(cfg Config) *ExactSquad {
	return &ExactSquad{
		cfg: cfg.withDefaults(),
		log: logger.GetLogger().WithField("optimizer", "exact"),
	}
}

func (o *ExactSquad) Name() string { return "exact" }

func (o *ExactSquad) Optimise(pool []Candidate) ([]fpl.Player, error) {
	program := newBinaryProgram(scores(pool))

	program.addLE(costs(pool), float64(o.cfg.Budget))

	for position, quota := range fpl.SquadQuota() {
		program.addEQ(positionIndicator(pool, position), float64(quota))
	}

	for _, club := range clubs(pool) {
		program.addLE(clubIndicator(pool, club), float64(fpl.MaxPerClub))
	}

	selected, err := solveSelection(program, pool)
	if err != nil {
		return nil, err
	}

	o.log.WithFields(logrus.Fields{
		"pool_size":  len(pool),
		"squad_cost": playerCost(selected),
	}).Debug("Exact squad selection completed")

	return selected, nil
}

// ExactTeam picks the 11-player active team from an already selected squad:
// exactly one keeper, at least three defenders, at least one forward, eleven
// in total. Budget and club caps are already enforced at squad level.
type ExactTeam struct {
	log *logrus.Entry
}

func NewExactTeam() *ExactTeam {
	return &ExactTeam{log: logger.GetLogger().WithField("optimizer", "exact_team")}
}

func (o *ExactTeam) Name() string { return "exact_team" }

func (o *ExactTeam) Optimise(squad []Candidate) ([]fpl.Player, error) {
	program := newBinaryProgram(scores(squad))

	program.addEQ(positionIndicator(squad, fpl.Keeper), 1)
	program.addGE(positionIndicator(squad, fpl.Defender), 3)
	program.addGE(positionIndicator(squad, fpl.Forward), 1)
	program.addEQ(ones(len(squad)), float64(fpl.TeamSize))

	return solveSelection(program, squad)
}

func solveSelection(program *binaryProgram, pool []Candidate) ([]fpl.Player, error) {
	assignment, err := program.solve()
	if err != nil {
		if errors.Is(err, errNoIncumbent) {
			return nil, infeasible("no assignment satisfies the roster constraints")
		}
		return nil, fmt.Errorf("integer program solve failed: %w", err)
	}

	selected := make([]fpl.Player, 0, len(pool))
	for i, v := range assignment {
		if v >= selectionTol {
			selected = append(selected, pool[i].Player)
		}
	}
	return selected, nil
}

func scores(pool []Candidate) []float64 {
	values := make([]float64, len(pool))
	for i, c := range pool {
		values[i] = c.Score
	}
	return values
}

func costs(pool []Candidate) []float64 {
	values := make([]float64, len(pool))
	for i, c := range pool {
		values[i] = float64(c.Player.Cost)
	}
	return values
}

func positionIndicator(pool []Candidate, position fpl.Position) []float64 {
	indicator := make([]float64, len(pool))
	for i, c := range pool {
		if c.Player.Position == position {
			indicator[i] = 1
		}
	}
	return indicator
}

func clubIndicator(pool []Candidate, club string) []float64 {
	indicator := make([]float64, len(pool))
	for i, c := range pool {
		if c.Player.Club == club {
			indicator[i] = 1
		}
	}
	return indicator
}

func clubs(pool []Candidate) []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range pool {
		if !seen[c.Player.Club] {
			seen[c.Player.Club] = true
			names = append(names, c.Player.Club)
		}
	}
	return names
}

func ones(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = 1
	}
	return values
}

func playerCost(players []fpl.Player) int {
	total := 0
	for _, p := range players {
		total += p.Cost
	}
	return total
}
