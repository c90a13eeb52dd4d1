package engine

import "github.com/piwi3910/FoilCut/internal/model"

// StripPiece is one physical strip that has to be cut from a roll.
type StripPiece struct {
	Label  string
	Foil   model.FoilAssignment
	Width  model.RollWidth
	Length float64
}

// Pair records a wall piece riding along on the roll of a bottom strip.
type Pair struct {
	Piece  int // Index into the wall pieces
	Bottom int // Index into the bottom strips
}

// PairingResult is the outcome of nesting wall pieces into bottom roll tails.
type PairingResult struct {
	Pairs          []Pair
	Unpaired       []int   // Wall piece indices that need a roll of their own
	PairedLeftover float64 // m² left on rolls shared by a bottom strip and a wall piece
	ReusableArea   float64 // m² of dedicated-roll remainders at or above the reuse threshold
	UnusableArea   float64 // m² of dedicated-roll remainders below the threshold
}

// CanPair reports whether a piece of length l fits on the same roll as a bottom strip of length b.
func CanPair(l, b, rollLength float64) bool {
	return l+b <= rollLength+eps
}

// PairWithBottom greedily places each wall piece, in order, on the first unpaired
// bottom strip of the same width whose roll still has room. There is no backtracking:
// a piece takes the first fit even if a later piece would have needed it more.
func PairWithBottom(pieces, bottom []StripPiece, s model.Settings) PairingResult {
	var res PairingResult
	used := make([]bool, len(bottom))

	for i, p := range pieces {
		paired := false
		for j, b := range bottom {
			if used[j] || b.Width != p.Width {
				continue
			}
			if !CanPair(p.Length, b.Length, s.RollLength) {
				continue
			}
			used[j] = true
			paired = true
			res.Pairs = append(res.Pairs, Pair{Piece: i, Bottom: j})
			res.PairedLeftover += clampZero(s.RollLength-p.Length-b.Length) * float64(p.Width)
			break
		}
		if paired {
			continue
		}

		res.Unpaired = append(res.Unpaired, i)
		rest := clampZero(s.RollLength - p.Length)
		if model.IsReusable(rest, s.ReuseThreshold) {
			res.ReusableArea += rest * float64(p.Width)
		} else {
			res.UnusableArea += rest * float64(p.Width)
		}
	}

	return res
}
