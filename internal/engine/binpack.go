package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/piwi3910/FoilCut/internal/model"
)

// ErrStripTooLong is returned when a strip is longer than a whole roll.
var ErrStripTooLong = errors.New("strip longer than a roll")

// PackRolls assigns every strip to a roll using first-fit decreasing.
// Strips only share a roll with strips of the same foil and width. Rolls are
// numbered in the order they are opened. Strips that cannot fit even an empty roll
// are returned as unplaced.
func PackRolls(strips []StripPiece, s model.Settings) ([]model.RollAllocation, []StripPiece) {
	// Sort by length descending; equal lengths keep their input order
	sorted := make([]StripPiece, len(strips))
	copy(sorted, strips)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Length > sorted[j].Length
	})

	var rolls []model.RollAllocation
	var unplaced []StripPiece

	for _, st := range sorted {
		if st.Length <= 0 {
			continue
		}
		if st.Length > s.RollLength+eps {
			unplaced = append(unplaced, st)
			continue
		}

		placed := false
		for i := range rolls {
			r := &rolls[i]
			if r.Foil != st.Foil || r.RollWidth != st.Width {
				continue
			}
			if r.UsedLength+st.Length <= s.RollLength+eps {
				place(r, st, s.RollLength)
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		rolls = append(rolls, model.RollAllocation{
			Number:      len(rolls) + 1,
			Foil:        st.Foil,
			RollWidth:   st.Width,
			WasteLength: s.RollLength,
		})
		place(&rolls[len(rolls)-1], st, s.RollLength)
	}

	return rolls, unplaced
}

func place(r *model.RollAllocation, st StripPiece, rollLength float64) {
	r.Strips = append(r.Strips, model.RollStrip{SurfaceLabel: st.Label, Length: st.Length})
	r.UsedLength += st.Length
	r.WasteLength = rollLength - r.UsedLength
	if r.WasteLength < 0 {
		r.WasteLength = 0
	}
}

// CountRolls returns the number of rolls of each width.
func CountRolls(rolls []model.RollAllocation, s model.Settings) (narrow, wide int) {
	for _, r := range rolls {
		if r.RollWidth == s.NarrowWidth {
			narrow++
		} else {
			wide++
		}
	}
	return narrow, wide
}

// surfacePieces expands a surface cut into individual strips, one per strip and repetition.
func surfacePieces(cfg model.SurfaceRollConfig, s model.Settings) []StripPiece {
	var out []StripPiece
	for r := 0; r < cfg.Repetition; r++ {
		label := cfg.Label
		if cfg.Repetition > 1 {
			label = fmt.Sprintf("%s %d", cfg.Label, r+1)
		}
		for _, w := range cfg.StripWidths(s.NarrowWidth, s.WideWidth) {
			out = append(out, StripPiece{
				Label:  label,
				Foil:   cfg.Foil,
				Width:  w,
				Length: cfg.StripLength,
			})
		}
	}
	return out
}

func unplacedError(unplaced []StripPiece, rollLength float64) error {
	if len(unplaced) == 0 {
		return nil
	}
	st := unplaced[0]
	return fmt.Errorf("%w: %s needs %.2fm, roll is %.2fm", ErrStripTooLong, st.Label, st.Length, rollLength)
}
