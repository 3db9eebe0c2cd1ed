package optimizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/fpltools/squad-optimizer/internal/fpl"
	"github.com/fpltools/squad-optimizer/pkg/logger"
)

// Average aims for mid-priced squads: candidates are ranked by their absolute
// distance from the pool's mean cost and accepted in that order under the
// quota, club-cap and strict-budget predicates.
type Average struct {
	cfg Config
	log *logrus.Entry
}

func NewAverage(cfg Config) *Average {
	return &Average{
		cfg: cfg.withDefaults(),
		log: logger.GetLogger().WithField("optimizer", "average"),
	}
}

func (o *Average) Name() string { return "average" }

func (o *Average) Optimise(pool []Candidate) ([]fpl.Player, error) {
	if len(pool) == 0 {
		return nil, infeasible("empty candidate pool")
	}

	meanCost, err := stats.Mean(costs(pool))
	if err != nil {
		return nil, fmt.Errorf("mean cost: %w", err)
	}

	ranked := append([]Candidate(nil), pool...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(float64(ranked[i].Player.Cost)-meanCost) < math.Abs(float64(ranked[j].Player.Cost)-meanCost)
	})

	st := newSelectionState(o.cfg)
	for _, c := range ranked {
		if len(st.squad) == fpl.SquadSize {
			break
		}
		if st.positionOpen(c.Player) &&
			st.clubOpen(c.Player) &&
			c.Player.Cost < st.budget &&
			!st.inSquad(c.Player) {
			st.add(c)
		}
	}

	if len(st.squad) != fpl.SquadSize {
		return nil, infeasible(fmt.Sprintf("pool exhausted with %d of %d players selected", len(st.squad), fpl.SquadSize))
	}

	o.log.WithFields(logrus.Fields{
		"pool_size":  len(pool),
		"mean_cost":  meanCost,
		"squad_cost": o.cfg.Budget - st.budget,
	}).Debug("Average squad selection completed")

	return st.players(), nil
}
