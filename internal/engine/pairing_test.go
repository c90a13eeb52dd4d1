package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPair(t *testing.T) {
	assert.True(t, CanPair(6, 10, 25))
	assert.True(t, CanPair(15, 10, 25), "exactly one roll")
	assert.False(t, CanPair(16, 10, 25))
}

func TestPairWithBottom_WallRidesAlong(t *testing.T) {
	s := defaultTestSettings()
	pieces := []StripPiece{{Label: "Wall strip 1", Width: s.NarrowWidth, Length: 6}}
	bottom := []StripPiece{{Label: "Bottom", Width: s.NarrowWidth, Length: 10}}

	res := PairWithBottom(pieces, bottom, s)

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, Pair{Piece: 0, Bottom: 0}, res.Pairs[0])
	assert.Empty(t, res.Unpaired)
	assert.InDelta(t, 9*1.65, res.PairedLeftover, 1e-9)
}

func TestPairWithBottom_WidthsMustMatch(t *testing.T) {
	s := defaultTestSettings()
	pieces := []StripPiece{{Width: s.WideWidth, Length: 6}}
	bottom := []StripPiece{{Width: s.NarrowWidth, Length: 10}}

	res := PairWithBottom(pieces, bottom, s)

	assert.Empty(t, res.Pairs)
	assert.Equal(t, []int{0}, res.Unpaired)
	assert.InDelta(t, 19*2.05, res.ReusableArea, 1e-9)
}

func TestPairWithBottom_GreedyFirstFit(t *testing.T) {
	s := defaultTestSettings()
	// The first piece takes the only bottom roll with room even though the
	// second piece could only have fitted there
	pieces := []StripPiece{
		{Label: "short", Width: s.NarrowWidth, Length: 4},
		{Label: "long", Width: s.NarrowWidth, Length: 14},
	}
	bottom := []StripPiece{
		{Width: s.NarrowWidth, Length: 10},
		{Width: s.NarrowWidth, Length: 20},
	}

	res := PairWithBottom(pieces, bottom, s)

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, Pair{Piece: 0, Bottom: 0}, res.Pairs[0])
	assert.Equal(t, []int{1}, res.Unpaired)
}

func TestPairWithBottom_ShortRemainderIsUnusable(t *testing.T) {
	s := defaultTestSettings()
	pieces := []StripPiece{{Width: s.NarrowWidth, Length: 24}}

	res := PairWithBottom(pieces, nil, s)

	assert.Equal(t, 0.0, res.ReusableArea)
	assert.InDelta(t, 1.65, res.UnusableArea, 1e-9)
}
