// Package strategy wires a predictor, an optimizer and a blacklist into a
// squad-picking policy.
package strategy

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fpltools/squad-optimizer/internal/fpl"
	"github.com/fpltools/squad-optimizer/internal/history"
	"github.com/fpltools/squad-optimizer/internal/optimizer"
	"github.com/fpltools/squad-optimizer/internal/predictor"
	"github.com/fpltools/squad-optimizer/pkg/logger"
)

// Strategy chooses a full squad from the candidate pool and absorbs weekly
// information updates.
type Strategy interface {
	ChooseSquad(pool []fpl.PoolRow) (*fpl.Squad, error)
	WeeklyUpdate(histories history.Table) error
}

// PredictorStrategy forecasts each candidate's score from its history, drops
// blacklisted players and players without usable history, and hands the
// scored pool to the optimizer.
type PredictorStrategy struct {
	predictor predictor.Predictor
	optimiser optimizer.Optimiser
	histories history.Table
	blacklist map[string]bool
	log       *logrus.Entry
}

func NewPredictorStrategy(p predictor.Predictor, o optimizer.Optimiser, histories history.Table, blacklist []string) *PredictorStrategy {
	blocked := make(map[string]bool, len(blacklist))
	for _, name := range blacklist {
		blocked[name] = true
	}
	return &PredictorStrategy{
		predictor: p,
		optimiser: o,
		histories: histories,
		blacklist: blocked,
		log: logger.GetLogger().WithFields(logrus.Fields{
			"strategy":  o.Name(),
			"predictor": p.Name(),
		}),
	}
}

func (s *PredictorStrategy) ChooseSquad(pool []fpl.PoolRow) (*fpl.Squad, error) {
	candidates := make([]optimizer.Candidate, 0, len(pool))
	skipped := 0

	for _, row := range pool {
		if s.blacklist[row.FullName()] {
			skipped++
			continue
		}
		player, err := row.Player()
		if err != nil {
			return nil, fmt.Errorf("candidate row %s: %w", row.FullName(), err)
		}

		scores, ok := s.histories.Lookup(row.FullName())
		if !ok {
			skipped++
			continue
		}
		score, err := s.predictor.Predict(scores)
		if err != nil {
			skipped++
			continue
		}
		candidates = append(candidates, optimizer.Candidate{Player: player, Score: score})
	}

	s.log.WithFields(logrus.Fields{
		"pool_size": len(pool),
		"scored":    len(candidates),
		"skipped":   skipped,
	}).Info("Candidate pool scored")

	players, err := s.optimiser.Optimise(candidates)
	if err != nil {
		return nil, err
	}
	return fpl.NewSquad(players)
}

// WeeklyUpdate refreshes the history table and retrains the predictor on it.
func (s *PredictorStrategy) WeeklyUpdate(histories history.Table) error {
	s.histories = histories

	matrix := make([][]float64, 0, len(histories))
	for _, h := range histories {
		matrix = append(matrix, h)
	}
	if err := s.predictor.Train(matrix); err != nil {
		return fmt.Errorf("retrain predictor: %w", err)
	}
	s.log.WithField("players", len(histories)).Info("Weekly update applied")
	return nil
}
