package optimizer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fpltools/squad-optimizer/internal/fpl"
	"github.com/fpltools/squad-optimizer/pkg/logger"
)

// EfficientV2 is the greedy optimizer with budget redistribution and a
// local-search refinement: a cheapest-bench initialization, a value-ordered
// forward fill that reallocates leftover sub-budget from filled positions to
// the still-open ones, and a backward first-improvement pass that swaps the
// weakest team members for the best affordable upgrades.
type EfficientV2 struct {
	cfg Config
	log *logrus.Entry
}

func NewEfficientV2(cfg Config) (*EfficientV2, error) {
	cfg = cfg.withDefaults()
	total := 0
	for _, b := range cfg.BudgetBreakdown {
		total += b
	}
	if total != cfg.Budget {
		return nil, fmt.Errorf("budget breakdown sums to %d, want %d", total, cfg.Budget)
	}
	return &EfficientV2{
		cfg: cfg,
		log: logger.GetLogger().WithField("optimizer", "efficientv2"),
	}, nil
}

func (o *EfficientV2) Name() string { return "efficientv2" }

func (o *EfficientV2) Optimise(pool []Candidate) ([]fpl.Player, error) {
	st := newSelectionState(o.cfg)

	o.fillBench(st, pool)

	if err := o.forwardPass(st, pool); err != nil {
		return nil, err
	}
	o.backwardPass(st, pool)

	if len(st.squad) != fpl.SquadSize {
		return nil, infeasible(fmt.Sprintf("squad incomplete after local search: %d of %d players", len(st.squad), fpl.SquadSize))
	}

	o.log.WithFields(logrus.Fields{
		"pool_size":  len(pool),
		"squad_cost": o.cfg.Budget - st.budget,
	}).Debug("Efficientv2 squad selection completed")

	return st.players(), nil
}

// fillBench seeds each position's non-starting slots with the cheapest
// candidates under the club cap, independent of score, so the value-ranked
// pool is spent on the starting XI.
func (o *EfficientV2) fillBench(st *selectionState, pool []Candidate) {
	for _, position := range fpl.Positions {
		benchSlots := st.quota[position] - st.formation[position]
		for _, c := range sortByCost(filterByPosition(pool, position)) {
			if benchSlots == 0 {
				break
			}
			if st.inSquad(c.Player) || !st.clubOpen(c.Player) {
				continue
			}
			st.add(c)
			benchSlots--
		}
	}
}

// forwardPass walks the pool in value order, redistributing leftover
// sub-budget from filled positions before each acceptance test. A spent
// global budget is fatal.
func (o *EfficientV2) forwardPass(st *selectionState, pool []Candidate) error {
	for _, c := range sortByValue(pool) {
		if len(st.squad) == fpl.SquadSize {
			break
		}

		o.redistributeBudget(st)

		if st.budget <= 0 {
			return infeasible("budget exhausted during forward pass")
		}

		if st.positionOpen(c.Player) &&
			c.Player.Cost <= st.breakdown[c.Player.Position] &&
			st.clubOpen(c.Player) &&
			!st.inSquad(c.Player) {
			st.add(c)
			st.team = append(st.team, c)
		}
	}
	return nil
}

// redistributeBudget pools the leftover sub-budget of every filled position
// and splits it evenly across the positions that still have open slots.
func (o *EfficientV2) redistributeBudget(st *selectionState) {
	wiggle := 0
	openPositions := len(fpl.Positions)

	for _, position := range fpl.Positions {
		if st.positionCount(position) == st.quota[position] && st.breakdown[position] > 0 {
			wiggle += st.breakdown[position]
			st.breakdown[position] = 0
			openPositions--
		}
	}

	if wiggle > 0 && openPositions > 0 {
		share := wiggle / openPositions
		for _, position := range fpl.Positions {
			if st.positionCount(position) < st.quota[position] {
				st.breakdown[position] += share
			}
		}
	}
}

// backwardPass revisits the team worst-score first and swaps in the best
// strictly better same-position candidate that would be affordable with the
// member released. First improvement only: at most one swap per original
// member.
func (o *EfficientV2) backwardPass(st *selectionState, pool []Candidate) {
	for _, member := range sortByScore(st.team, true) {
		if !st.inSquad(member.Player) {
			// Already displaced by an earlier swap.
			continue
		}

		var affordable []Candidate
		for _, c := range filterByPosition(pool, member.Player.Position) {
			if c.Player.Cost < st.budget+member.Player.Cost {
				affordable = append(affordable, c)
			}
		}

		for _, c := range sortByScore(affordable, false) {
			if c.Score <= member.Score {
				// Strict improvement only; the rest can only be worse.
				break
			}
			if c.Player.Name == member.Player.Name || st.inSquad(c.Player) {
				continue
			}
			if !o.swapFeasible(st, member, c) {
				continue
			}
			o.swap(st, member, c)
			break
		}
	}
}

// swapFeasible applies the three acceptance predicates with the outgoing
// member notionally removed from the squad.
func (o *EfficientV2) swapFeasible(st *selectionState, out, in Candidate) bool {
	positionCount := st.positionCount(in.Player.Position)
	if in.Player.Position == out.Player.Position {
		positionCount--
	}
	if positionCount >= st.quota[in.Player.Position] {
		return false
	}

	if in.Player.Cost > st.breakdown[in.Player.Position]+out.Player.Cost {
		return false
	}

	clubCount := 0
	for _, c := range st.squad {
		if c.Player.Name == out.Player.Name {
			continue
		}
		if c.Player.Club == in.Player.Club {
			clubCount++
		}
	}
	return clubCount < fpl.MaxPerClub
}

// swap replaces out with in across squad and team, refunding and debiting
// the global and per-position budgets.
func (o *EfficientV2) swap(st *selectionState, out, in Candidate) {
	st.squad = removeCandidate(st.squad, out)
	st.squad = append(st.squad, in)
	st.team = removeCandidate(st.team, out)
	st.team = append(st.team, in)

	st.budget += out.Player.Cost - in.Player.Cost
	st.breakdown[out.Player.Position] += out.Player.Cost
	st.breakdown[in.Player.Position] -= in.Player.Cost
}

func removeCandidate(pool []Candidate, target Candidate) []Candidate {
	for i, c := range pool {
		if c.Player.Name == target.Player.Name {
			return append(pool[:i:i], pool[i+1:]...)
		}
	}
	return pool
}
