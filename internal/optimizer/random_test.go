package optimizer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpltools/squad-optimizer/internal/fpl"
)

func TestRandomSelectsValidSquads(t *testing.T) {
	pool := feasiblePool(3)

	for seed := int64(0); seed < 10; seed++ {
		opt := NewRandom(Config{}, rand.New(rand.NewSource(seed)))
		players, err := opt.Optimise(pool)
		require.NoError(t, err, "seed %d", seed)
		require.Len(t, players, fpl.SquadSize)
		requireValidSquad(t, players)
	}
}

func TestRandomSameSeedSameSquad(t *testing.T) {
	pool := feasiblePool(3)

	first, err := NewRandom(Config{}, rand.New(rand.NewSource(42))).Optimise(pool)
	require.NoError(t, err)
	second, err := NewRandom(Config{}, rand.New(rand.NewSource(42))).Optimise(pool)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRandomBoundedDraws(t *testing.T) {
	// One keeper can never satisfy the two-keeper quota; the draw loop must
	// give up instead of spinning.
	var pool []Candidate
	for _, c := range feasiblePool(0) {
		if c.Player.Position == fpl.Keeper && c.Player.Name != "GK 0" {
			continue
		}
		pool = append(pool, c)
	}

	opt := NewRandom(Config{MaxDraws: 500}, rand.New(rand.NewSource(1)))
	_, err := opt.Optimise(pool)
	require.Error(t, err)
	assert.True(t, IsInfeasible(err))
}

func TestRandomEmptyPool(t *testing.T) {
	opt := NewRandom(Config{}, rand.New(rand.NewSource(1)))
	_, err := opt.Optimise(nil)
	require.Error(t, err)
	assert.True(t, IsInfeasible(err))
}
