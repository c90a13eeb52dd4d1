package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/FoilCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func narrowPieces(lengths ...float64) []StripPiece {
	out := make([]StripPiece, len(lengths))
	for i, l := range lengths {
		out[i] = StripPiece{Label: "S", Foil: model.FoilMain, Width: 1.65, Length: l}
	}
	return out
}

func TestPackRolls_FirstFitDecreasing(t *testing.T) {
	s := defaultTestSettings()

	rolls, unplaced := PackRolls(narrowPieces(10, 20, 5, 12), s)

	require.Empty(t, unplaced)
	require.Len(t, rolls, 2)

	assert.Equal(t, 1, rolls[0].Number)
	assert.Equal(t, []model.RollStrip{{SurfaceLabel: "S", Length: 20}, {SurfaceLabel: "S", Length: 5}}, rolls[0].Strips)
	assert.Equal(t, 0.0, rolls[0].WasteLength)

	assert.Equal(t, 2, rolls[1].Number)
	assert.Equal(t, 22.0, rolls[1].UsedLength)
	assert.Equal(t, 3.0, rolls[1].WasteLength)
}

func TestPackRolls_SeparatesWidthsAndFoils(t *testing.T) {
	s := defaultTestSettings()
	strips := append(narrowPieces(10),
		StripPiece{Label: "W", Foil: model.FoilMain, Width: s.WideWidth, Length: 3},
		StripPiece{Label: "T", Foil: model.FoilStructural, Width: s.NarrowWidth, Length: 4},
	)

	rolls, _ := PackRolls(strips, s)

	require.Len(t, rolls, 3)
	narrow, wide := CountRolls(rolls, s)
	assert.Equal(t, 2, narrow)
	assert.Equal(t, 1, wide)
	assert.Equal(t, model.FoilStructural, rolls[1].Foil)
}

func TestPackRolls_Conservation(t *testing.T) {
	s := defaultTestSettings()

	rolls, _ := PackRolls(narrowPieces(10.2, 5.1, 10.2, 5.1, 7.35, 3.3, 12.05), s)

	for _, r := range rolls {
		var sum float64
		for _, st := range r.Strips {
			sum += st.Length
		}
		assert.InDelta(t, sum, r.UsedLength, 1e-9)
		assert.InDelta(t, s.RollLength, r.UsedLength+r.WasteLength, 1e-9)
		assert.LessOrEqual(t, r.UsedLength, s.RollLength+1e-9)
		assert.GreaterOrEqual(t, r.WasteLength, 0.0)
	}
}

func TestPackRolls_TooLongAndEmpty(t *testing.T) {
	s := defaultTestSettings()

	rolls, unplaced := PackRolls(narrowPieces(26, 0, 4), s)

	require.Len(t, rolls, 1)
	require.Len(t, unplaced, 1)
	assert.Equal(t, 26.0, unplaced[0].Length)

	err := unplacedError(unplaced, s.RollLength)
	assert.True(t, errors.Is(err, ErrStripTooLong))
	assert.NoError(t, unplacedError(nil, s.RollLength))
}

func TestSurfacePieces_LabelsRepetitions(t *testing.T) {
	s := defaultTestSettings()
	cfg := model.SurfaceRollConfig{Label: "Long wall", StripLength: 10, Repetition: 2, WideStrips: 1, NarrowStrips: 1, StripCount: 2}

	pieces := surfacePieces(cfg, s)

	require.Len(t, pieces, 4)
	assert.Equal(t, "Long wall 1", pieces[0].Label)
	assert.Equal(t, s.WideWidth, pieces[0].Width)
	assert.Equal(t, s.NarrowWidth, pieces[1].Width)
	assert.Equal(t, "Long wall 2", pieces[3].Label)
}
