package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearRegressionExtrapolatesTrend(t *testing.T) {
	var p LinearRegression

	// Perfectly linear history continues the line.
	got, err := p.Predict([]float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 8, got, 1e-9)

	// A flat history predicts the same value again.
	got, err = p.Predict([]float64{120, 120, 120, 120})
	require.NoError(t, err)
	assert.InDelta(t, 120, got, 1e-9)
}

func TestLinearRegressionNeedsTwoSeasons(t *testing.T) {
	var p LinearRegression
	_, err := p.Predict([]float64{90})
	assert.ErrorIs(t, err, ErrNotEnoughHistory)
}

func TestMovingAverage(t *testing.T) {
	p := MovingAverage{Window: 2}
	got, err := p.Predict([]float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 5, got, 1e-9)

	// A zero window averages the whole history.
	full := MovingAverage{}
	got, err = full.Predict([]float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 4, got, 1e-9)

	_, err = p.Predict(nil)
	assert.ErrorIs(t, err, ErrNotEnoughHistory)
}

func TestAutoRegressiveTrained(t *testing.T) {
	p := &AutoRegressive{}
	// Lag pairs (1,2) (2,3) (3,4) fit next = previous + 1.
	require.NoError(t, p.Train([][]float64{{1, 2, 3, 4}}))

	got, err := p.Predict([]float64{5})
	require.NoError(t, err)
	assert.InDelta(t, 6, got, 1e-9)
}

func TestAutoRegressiveUntrainedFitsPerHistory(t *testing.T) {
	p := &AutoRegressive{}
	// Lag pairs (2,4) (4,6) fit next = previous + 2.
	got, err := p.Predict([]float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 8, got, 1e-9)
}

func TestAutoRegressiveNotEnoughHistory(t *testing.T) {
	p := &AutoRegressive{}
	_, err := p.Predict([]float64{4, 8})
	assert.ErrorIs(t, err, ErrNotEnoughHistory)

	err = p.Train([][]float64{{7}, {9}})
	assert.ErrorIs(t, err, ErrNotEnoughHistory)
}
