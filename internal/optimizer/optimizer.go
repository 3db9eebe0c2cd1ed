package optimizer

import (
	"fmt"
	"sort"

	"github.com/fpltools/squad-optimizer/internal/fpl"
)

// Candidate is one selectable player together with the forecast score
// attached by the prediction layer. The optimizers maximize summed score and
// never compute it themselves.
type Candidate struct {
	Player fpl.Player `json:"player"`
	Score  float64    `json:"score"`
}

// Value is the greedy ranking key: forecast score per unit of cost.
func (c Candidate) Value() float64 {
	if c.Player.Cost == 0 {
		return 0
	}
	return c.Score / float64(c.Player.Cost)
}

// Optimiser selects a full 15-player squad from a candidate pool. A single
// instance owns per-run state and must not be shared across concurrent
// Optimise calls; construct one per selection run.
type Optimiser interface {
	Name() string
	Optimise(pool []Candidate) ([]fpl.Player, error)
}

// Config carries the tunables shared by the optimizer family. Zero values
// fall back to the roster constants in the fpl package.
type Config struct {
	Budget          int
	Formation       map[fpl.Position]int
	BudgetBreakdown map[fpl.Position]int
	// MaxDraws bounds the Random optimizer's rejection sampling.
	MaxDraws int
}

func (c Config) withDefaults() Config {
	if c.Budget == 0 {
		c.Budget = fpl.Budget
	}
	if c.Formation == nil {
		c.Formation = fpl.DefaultFormation()
	}
	if c.BudgetBreakdown == nil {
		// Even split, remainder to forwards, so the breakdown sums to the
		// budget exactly.
		share := c.Budget / len(fpl.Positions)
		c.BudgetBreakdown = map[fpl.Position]int{
			fpl.Keeper:     share,
			fpl.Defender:   share,
			fpl.Midfielder: share,
			fpl.Forward:    c.Budget - 3*share,
		}
	}
	if c.MaxDraws == 0 {
		c.MaxDraws = 10000
	}
	return c
}

// New returns the strategy registered under the given name. The set of
// strategies is closed; unknown names are an error.
func New(name string, cfg Config) (Optimiser, error) {
	switch name {
	case "exact":
		return NewExactSquad(cfg), nil
	case "efficient":
		return NewEfficient(cfg), nil
	case "efficientv2":
		return NewEfficientV2(cfg)
	case "average":
		return NewAverage(cfg), nil
	case "random":
		return NewRandom(cfg, nil), nil
	}
	return nil, fmt.Errorf("unknown optimizer strategy %q", name)
}

// CandidatesFromRows converts pool rows that already carry a forecast score
// into optimizer candidates.
func CandidatesFromRows(rows []fpl.PoolRow) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		player, err := row.Player()
		if err != nil {
			return nil, fmt.Errorf("candidate row %s: %w", row.FullName(), err)
		}
		candidates = append(candidates, Candidate{Player: player, Score: row.PredictedPoints})
	}
	return candidates, nil
}

// StrategyNames lists the selectable strategies.
func StrategyNames() []string {
	return []string{"exact", "efficient", "efficientv2", "average", "random"}
}

// selectionState is the mutable per-run state shared by the greedy
// optimizers: the squad and team under construction plus the remaining
// global and per-position budgets. It is created fresh for every Optimise
// call and discarded afterwards.
type selectionState struct {
	squad     []Candidate
	team      []Candidate
	budget    int
	breakdown map[fpl.Position]int
	quota     map[fpl.Position]int
	formation map[fpl.Position]int
}

func newSelectionState(cfg Config) *selectionState {
	breakdown := make(map[fpl.Position]int, len(cfg.BudgetBreakdown))
	for position, b := range cfg.BudgetBreakdown {
		breakdown[position] = b
	}
	return &selectionState{
		budget:    cfg.Budget,
		breakdown: breakdown,
		quota:     fpl.SquadQuota(),
		formation: cfg.Formation,
	}
}

// positionOpen reports whether the squad still has quota room for the
// candidate's position.
func (st *selectionState) positionOpen(p fpl.Player) bool {
	return st.positionCount(p.Position) < st.quota[p.Position]
}

func (st *selectionState) positionCount(position fpl.Position) int {
	count := 0
	for _, c := range st.squad {
		if c.Player.Position == position {
			count++
		}
	}
	return count
}

// clubOpen reports whether the candidate's club is still under the
// three-per-club cap.
func (st *selectionState) clubOpen(p fpl.Player) bool {
	count := 0
	for _, c := range st.squad {
		if c.Player.Club == p.Club {
			count++
		}
	}
	return count < fpl.MaxPerClub
}

// inSquad reports squad membership by name.
func (st *selectionState) inSquad(p fpl.Player) bool {
	for _, c := range st.squad {
		if c.Player.Name == p.Name {
			return true
		}
	}
	return false
}

// add accepts a candidate into the squad and debits the budgets.
func (st *selectionState) add(c Candidate) {
	st.squad = append(st.squad, c)
	st.budget -= c.Player.Cost
	st.breakdown[c.Player.Position] -= c.Player.Cost
}

func (st *selectionState) players() []fpl.Player {
	players := make([]fpl.Player, len(st.squad))
	for i, c := range st.squad {
		players[i] = c.Player
	}
	return players
}

// sortByValue returns the pool ordered by score-per-cost descending. Ties
// keep the original pool order.
func sortByValue(pool []Candidate) []Candidate {
	sorted := append([]Candidate(nil), pool...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})
	return sorted
}

// sortByCost returns the pool ordered by cost ascending, cost ties by score
// ascending: bench fill spends the weakest candidate of a price point and
// leaves the stronger ones for the value-ranked passes.
func sortByCost(pool []Candidate) []Candidate {
	sorted := append([]Candidate(nil), pool...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Player.Cost != sorted[j].Player.Cost {
			return sorted[i].Player.Cost < sorted[j].Player.Cost
		}
		return sorted[i].Score < sorted[j].Score
	})
	return sorted
}

// sortByScore returns the pool ordered by forecast score; ascending selects
// the replacement order of the backward pass, descending the replacement
// candidates.
func sortByScore(pool []Candidate, ascending bool) []Candidate {
	sorted := append([]Candidate(nil), pool...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return sorted[i].Score < sorted[j].Score
		}
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}

// filterByPosition keeps the candidates playing the given position.
func filterByPosition(pool []Candidate, position fpl.Position) []Candidate {
	filtered := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if c.Player.Position == position {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
