package fpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	for code, want := range map[int]Position{1: Keeper, 2: Defender, 3: Midfielder, 4: Forward} {
		got, err := ParsePosition(code)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, code := range []int{0, 5, -1} {
		_, err := ParsePosition(code)
		assert.Error(t, err)
	}
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "GK", Keeper.String())
	assert.Equal(t, "DEF", Defender.String())
	assert.Equal(t, "MID", Midfielder.String())
	assert.Equal(t, "FWD", Forward.String())
}

func TestNewPlayer(t *testing.T) {
	p, err := NewPlayer("Mohamed", "Salah", 3, 130, "Liverpool")
	require.NoError(t, err)
	assert.Equal(t, "Mohamed Salah", p.Name)
	assert.Equal(t, Midfielder, p.Position)

	_, err = NewPlayer("No", "Position", 7, 50, "Club")
	assert.Error(t, err)

	_, err = NewPlayer("Negative", "Cost", 1, -1, "Club")
	assert.Error(t, err)
}

func TestSquadQuotaSumsToSquadSize(t *testing.T) {
	total := 0
	for _, quota := range SquadQuota() {
		total += quota
	}
	assert.Equal(t, SquadSize, total)
}
