package optimizer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fpltools/squad-optimizer/internal/fpl"
	"github.com/fpltools/squad-optimizer/pkg/logger"
)

// Random draws candidates uniformly with replacement, accepting each draw
// under the quota, club-cap and strict-budget predicates until the squad is
// full. Draws are bounded by Config.MaxDraws; a pool that cannot fill the
// quota fails instead of looping forever.
type Random struct {
	cfg Config
	rng *rand.Rand
	log *logrus.Entry
}

// NewRandom builds a Random optimizer. A nil rng gets a time-seeded source;
// tests inject a fixed seed.
func NewRandom(cfg Config, rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Random{
		cfg: cfg.withDefaults(),
		rng: rng,
		log: logger.GetLogger().WithField("optimizer", "random"),
	}
}

func (o *Random) Name() string { return "random" }

func (o *Random) Optimise(pool []Candidate) ([]fpl.Player, error) {
	if len(pool) == 0 {
		return nil, infeasible("empty candidate pool")
	}

	st := newSelectionState(o.cfg)
	draws := 0

	for len(st.squad) < fpl.SquadSize {
		if draws >= o.cfg.MaxDraws {
			return nil, infeasible(fmt.Sprintf("no full squad after %d random draws", draws))
		}
		draws++

		c := pool[o.rng.Intn(len(pool))]
		if st.positionOpen(c.Player) &&
			st.clubOpen(c.Player) &&
			c.Player.Cost < st.budget &&
			!st.inSquad(c.Player) {
			st.add(c)
		}
	}

	o.log.WithFields(logrus.Fields{
		"pool_size":  len(pool),
		"draws":      draws,
		"squad_cost": o.cfg.Budget - st.budget,
	}).Debug("Random squad selection completed")

	return st.players(), nil
}
