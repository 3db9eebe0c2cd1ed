package optimizer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fpltools/squad-optimizer/internal/fpl"
	"github.com/fpltools/squad-optimizer/pkg/logger"
)

// Efficient fills each position quota greedily by score-per-cost, spending a
// per-position sub-budget. The sub-budget is soft: it may go negative and
// only the club cap and quota gate acceptance; leftover budget rolls into
// the next position.
type Efficient struct {
	cfg Config
	log *logrus.Entry
}

func NewEfficient(cfg Config) *Efficient {
	return &Efficient{
		cfg: cfg.withDefaults(),
		log: logger.GetLogger().WithField("optimizer", "efficient"),
	}
}

func (o *Efficient) Name() string { return "efficient" }

func (o *Efficient) Optimise(pool []Candidate) ([]fpl.Player, error) {
	st := newSelectionState(o.cfg)
	wiggle := 0

	for _, position := range fpl.Positions {
		budget := st.breakdown[position] + wiggle
		remaining, err := o.fillPosition(st, pool, position, budget)
		if err != nil {
			return nil, err
		}
		wiggle = remaining
	}

	o.log.WithFields(logrus.Fields{
		"pool_size":       len(pool),
		"squad_cost":      o.cfg.Budget - st.budget,
		"leftover_budget": wiggle,
	}).Debug("Efficient squad selection completed")

	return st.players(), nil
}

// fillPosition takes the best-value candidates of one position until the
// quota is met, skipping club-capped candidates without consuming budget.
// Running out of candidates before the quota is an infeasible pool.
func (o *Efficient) fillPosition(st *selectionState, pool []Candidate, position fpl.Position, budget int) (int, error) {
	ranked := sortByValue(filterByPosition(pool, position))
	quota := st.quota[position]

	for _, c := range ranked {
		if st.positionCount(position) == quota {
			break
		}
		if !st.clubOpen(c.Player) || st.inSquad(c.Player) {
			continue
		}
		st.add(c)
		budget -= c.Player.Cost
	}

	if count := st.positionCount(position); count < quota {
		return 0, infeasible(fmt.Sprintf("only %d of %d %s candidates fit the squad", count, quota, position))
	}
	return budget, nil
}
