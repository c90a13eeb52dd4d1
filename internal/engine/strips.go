package engine

import (
	"math"

	"github.com/piwi3910/FoilCut/internal/model"
)

// eps absorbs floating point noise in length and width comparisons.
const eps = 1e-9

// CalculateStripsForWidth spans coverWidth with parallel strips of one roll width.
// A non-positive cover width means there is nothing to cover and yields a zero result.
func CalculateStripsForWidth(coverWidth float64, rollWidth model.RollWidth, minOverlap, maxOverlap float64) model.StripWidthResult {
	rw := float64(rollWidth)
	if coverWidth <= 0 || rw <= 0 || rw <= minOverlap {
		return model.StripWidthResult{}
	}

	if coverWidth <= rw+eps {
		return model.StripWidthResult{
			Count:             1,
			EdgeWasteWidth:    clampZero(rw - coverWidth),
			MaterialWidthUsed: rw,
		}
	}

	count := 1 + ceilTol((coverWidth-rw)/(rw-minOverlap))
	total := float64(count) * rw
	overlap, waste := fitOverlap(total, count-1, coverWidth, minOverlap, maxOverlap)

	return model.StripWidthResult{
		Count:             count,
		ActualOverlap:     overlap,
		EdgeWasteWidth:    waste,
		MaterialWidthUsed: total,
	}
}

// mixedStrips is a cut of several wide strips plus one narrow remainder strip.
type mixedStrips struct {
	wide   int
	result model.StripWidthResult
}

// calculateMixedStrips covers coverWidth with the fewest wide strips that, together
// with a single narrow strip, span it. It reports ok=false when a mix makes no sense
// because one wide strip already covers the width.
func calculateMixedStrips(coverWidth float64, narrow, wide model.RollWidth, minOverlap, maxOverlap float64) (mixedStrips, bool) {
	nw, ww := float64(narrow), float64(wide)
	if coverWidth <= ww+eps || ww <= minOverlap {
		return mixedStrips{}, false
	}

	k := ceilTol((coverWidth - nw) / (ww - minOverlap))
	if k < 1 {
		k = 1
	}
	total := float64(k)*ww + nw
	overlap, waste := fitOverlap(total, k, coverWidth, minOverlap, maxOverlap)

	return mixedStrips{
		wide: k,
		result: model.StripWidthResult{
			Count:             k + 1,
			ActualOverlap:     overlap,
			EdgeWasteWidth:    waste,
			MaterialWidthUsed: total,
		},
	}, true
}

// fitOverlap picks the seam overlap that makes total material width tile cover exactly.
// Outside [minOverlap, maxOverlap] the overlap is clamped and the residual reported as
// edge waste.
func fitOverlap(total float64, seams int, cover, minOverlap, maxOverlap float64) (overlap, waste float64) {
	if seams <= 0 {
		return 0, clampZero(total - cover)
	}
	exact := (total - cover) / float64(seams)
	switch {
	case exact > maxOverlap+eps:
		overlap = maxOverlap
	case exact < minOverlap-eps:
		overlap = minOverlap
	default:
		return clampRange(exact, minOverlap, maxOverlap), 0
	}
	return overlap, clampZero(total - float64(seams)*overlap - cover)
}

func ceilTol(x float64) int {
	return int(math.Ceil(x - eps))
}

func clampZero(x float64) float64 {
	if x < eps {
		return 0
	}
	return x
}

func clampRange(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
