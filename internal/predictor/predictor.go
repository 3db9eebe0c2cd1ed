// Package predictor hosts the forecasting boundary consumed by the squad
// strategies. Every predictor turns a player's season-by-season score
// history into a single forecast score; the selection engine only ever sees
// the resulting number.
package predictor

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Predictor forecasts the next-season score from a score history. Train is
// optional batch fitting over many histories; implementations that fit per
// history treat it as a no-op.
type Predictor interface {
	Name() string
	Train(histories [][]float64) error
	Predict(history []float64) (float64, error)
}

// ErrNotEnoughHistory is returned when a history is too short to fit.
var ErrNotEnoughHistory = errors.New("predictor: not enough history")

// LinearRegression extrapolates a per-player least-squares trend line one
// season past the end of the history.
type LinearRegression struct{}

func (LinearRegression) Name() string { return "linear_regression" }

func (LinearRegression) Train([][]float64) error { return nil }

func (LinearRegression) Predict(history []float64) (float64, error) {
	if len(history) < 2 {
		return 0, ErrNotEnoughHistory
	}
	seasons := make([]float64, len(history))
	for i := range seasons {
		seasons[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(seasons, history, nil, false)
	return alpha + beta*float64(len(history)), nil
}

// MovingAverage forecasts the mean of the most recent Window seasons. A zero
// Window averages the full history.
type MovingAverage struct {
	Window int
}

func (MovingAverage) Name() string { return "moving_average" }

func (MovingAverage) Train([][]float64) error { return nil }

func (m MovingAverage) Predict(history []float64) (float64, error) {
	if len(history) == 0 {
		return 0, ErrNotEnoughHistory
	}
	window := history
	if m.Window > 0 && m.Window < len(history) {
		window = history[len(history)-m.Window:]
	}
	mean, err := stats.Mean(window)
	if err != nil {
		return 0, fmt.Errorf("moving average: %w", err)
	}
	return mean, nil
}

// AutoRegressive is a first-order autoregressive forecaster. Train pools lag
// pairs across all histories to fit shared coefficients; without training,
// Predict fits on the single history it is given.
type AutoRegressive struct {
	alpha   float64
	beta    float64
	trained bool
}

func (*AutoRegressive) Name() string { return "autoregressive" }

func (a *AutoRegressive) Train(histories [][]float64) error {
	var lagged, current []float64
	for _, history := range histories {
		for i := 1; i < len(history); i++ {
			lagged = append(lagged, history[i-1])
			current = append(current, history[i])
		}
	}
	if len(lagged) < 2 {
		return ErrNotEnoughHistory
	}
	a.alpha, a.beta = stat.LinearRegression(lagged, current, nil, false)
	a.trained = true
	return nil
}

func (a *AutoRegressive) Predict(history []float64) (float64, error) {
	if len(history) == 0 {
		return 0, ErrNotEnoughHistory
	}
	if !a.trained {
		if len(history) < 3 {
			return 0, ErrNotEnoughHistory
		}
		lagged := history[:len(history)-1]
		current := history[1:]
		a.alpha, a.beta = stat.LinearRegression(lagged, current, nil, false)
	}
	return a.alpha + a.beta*history[len(history)-1], nil
}
