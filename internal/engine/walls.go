package engine

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/FoilCut/internal/model"
)

// ErrNoWallPlan is returned when not even one strip per wall segment fits a roll.
var ErrNoWallPlan = errors.New("no wall plan fits the roll length")

// WallRequest describes the perimeter walls to be cut.
type WallRequest struct {
	Segments   []model.WallSegment
	Height     float64           // Strip width to cover: depth plus fold allowance
	Widths     []model.RollWidth // Admissible roll widths
	MinOverlap float64           // Horizontal seam bounds when a wall needs several layers
	MaxOverlap float64
	Bottom     []StripPiece // Bottom strips whose roll tails may take wall pieces
	Foil       model.FoilAssignment
	Objective  model.Objective
}

// AdmissibleWallWidths returns the roll widths worth trying for a wall of the given height.
// Both widths compete only inside the comfort window just below and above the narrow
// width; outside it one width is clearly better.
func AdmissibleWallWidths(height float64, narrowOnly bool, s model.Settings) []model.RollWidth {
	switch {
	case narrowOnly, height <= float64(s.NarrowWidth)-s.DepthComfortMargin+eps:
		return s.Widths(true)
	case height > float64(s.WideWidth)+eps:
		return []model.RollWidth{s.WideWidth}
	}
	return s.Widths(false)
}

// WallPartitions yields the ways of grouping the segments into contiguous strips:
// the whole perimeter (only when its length fits one roll), every segment on its own,
// and every split into two or three groups at one or two cut points. Four or more
// groups are only produced as the one-per-segment split.
func WallPartitions(segments []model.WallSegment, rollLength float64) iter.Seq[[][]int] {
	n := len(segments)
	return func(yield func([][]int) bool) {
		if n == 0 {
			return
		}
		seen := make(map[string]bool)
		emit := func(cuts ...int) bool {
			p := split(n, cuts)
			key := groupSizesKey(p)
			if seen[key] {
				return true
			}
			seen[key] = true
			return yield(p)
		}

		var total float64
		for _, seg := range segments {
			total += seg.Length
		}
		if total <= rollLength+eps {
			if !emit() {
				return
			}
		}

		all := make([]int, 0, n-1)
		for i := 1; i < n; i++ {
			all = append(all, i)
		}
		if !emit(all...) {
			return
		}

		for i := 1; i < n; i++ {
			if !emit(i) {
				return
			}
		}
		for i := 1; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if !emit(i, j) {
					return
				}
			}
		}
	}
}

// split cuts 0..n-1 into contiguous groups before each cut index.
func split(n int, cuts []int) [][]int {
	groups := make([][]int, 0, len(cuts)+1)
	start := 0
	bounds := append(append([]int(nil), cuts...), n)
	for _, c := range bounds {
		g := make([]int, 0, c-start)
		for i := start; i < c; i++ {
			g = append(g, i)
		}
		groups = append(groups, g)
		start = c
	}
	return groups
}

// groupSizesKey identifies a partition by its group sizes. Every partition opens
// at segment 0, so the sizes fix the cut points; the key only merges the
// one-per-segment split with the identical two- or three-group split on small
// perimeters.
func groupSizesKey(p [][]int) string {
	parts := make([]string, len(p))
	for i, g := range p {
		parts[i] = strconv.Itoa(len(g))
	}
	return strings.Join(parts, ",")
}

// widthAssignments yields every assignment of an admissible width to each of k groups,
// in odometer order with the first group varying slowest.
func widthAssignments(widths []model.RollWidth, k int) iter.Seq[[]model.RollWidth] {
	return func(yield func([]model.RollWidth) bool) {
		if len(widths) == 0 || k == 0 {
			return
		}
		idx := make([]int, k)
		for {
			ws := make([]model.RollWidth, k)
			for i, j := range idx {
				ws[i] = widths[j]
			}
			if !yield(ws) {
				return
			}
			pos := k - 1
			for pos >= 0 {
				idx[pos]++
				if idx[pos] < len(widths) {
					break
				}
				idx[pos] = 0
				pos--
			}
			if pos < 0 {
				return
			}
		}
	}
}

// buildWallStrips lays out the strips of one partition with one width per group and
// distributes the seam overlaps. Each of the K seams between neighbouring strips (the
// perimeter is closed, so K equals the group count) goes entirely to the narrower
// neighbour, or on equal widths to the longer one, or to the earlier one.
func buildWallStrips(p [][]int, widths []model.RollWidth, req WallRequest, s model.Settings) []model.WallStripConfig {
	strips := make([]model.WallStripConfig, len(p))
	for g, group := range p {
		var base float64
		for _, idx := range group {
			base += req.Segments[idx].Length
		}
		layers := CalculateStripsForWidth(req.Height, widths[g], req.MinOverlap, req.MaxOverlap)
		strips[g] = model.WallStripConfig{
			Segments:   append([]int(nil), group...),
			BaseLength: base,
			RollWidth:  widths[g],
			Layers:     layers.Count,
		}
	}

	k := len(strips)
	for a := 0; a < k; a++ {
		b := (a + 1) % k
		target := a
		switch {
		case strips[b].RollWidth < strips[a].RollWidth:
			target = b
		case strips[b].RollWidth == strips[a].RollWidth && strips[b].BaseLength > strips[a].BaseLength+eps:
			target = b
		}
		strips[target].VerticalOverlap += s.WallSeamOverlap
	}

	for i := range strips {
		strips[i].TotalLength = strips[i].BaseLength + strips[i].VerticalOverlap
	}
	return strips
}

// wallPieces expands the strips of a plan into the physical pieces to cut.
func wallPieces(strips []model.WallStripConfig, req WallRequest) []StripPiece {
	var out []StripPiece
	for i, st := range strips {
		for l := 0; l < st.Layers; l++ {
			out = append(out, StripPiece{
				Label:  fmt.Sprintf("Wall strip %d", i+1),
				Foil:   req.Foil,
				Width:  st.RollWidth,
				Length: st.TotalLength,
			})
		}
	}
	return out
}

// scoreWallPlan fills in waste bookkeeping and the objective score of a plan.
func scoreWallPlan(strips []model.WallStripConfig, req WallRequest, s model.Settings) model.WallStripPlan {
	plan := model.WallStripPlan{
		Strips:    strips,
		RollCount: make(map[string]int),
	}

	var edgeWaste float64
	for _, st := range strips {
		res := CalculateStripsForWidth(req.Height, st.RollWidth, req.MinOverlap, req.MaxOverlap)
		edgeWaste += res.EdgeWasteWidth * st.TotalLength
		plan.TotalArea += float64(st.Layers) * float64(st.RollWidth) * st.TotalLength
		plan.StripCount += st.Layers
	}

	pieces := wallPieces(strips, req)
	pr := PairWithBottom(pieces, req.Bottom, s)
	for _, i := range pr.Unpaired {
		plan.RollCount[pieces[i].Width.String()]++
	}

	plan.WasteArea = edgeWaste + pr.UnusableArea
	plan.ReusableOffcutArea = pr.ReusableArea
	plan.PairedLeftover = pr.PairedLeftover
	plan.PairedPieces = len(pr.Pairs)
	plan.ExtraRolls = len(pr.Unpaired)

	switch req.Objective {
	case model.ObjectiveMinRolls:
		plan.Score = []float64{
			float64(plan.ExtraRolls),
			plan.PairedLeftover,
			plan.TotalArea,
			plan.WasteArea,
			float64(plan.StripCount),
		}
	default:
		plan.Score = []float64{
			plan.WasteArea,
			plan.PairedLeftover,
			float64(plan.StripCount),
			plan.TotalArea,
		}
	}
	return plan
}

// validWallStrips reports whether every strip fits on one roll.
func validWallStrips(strips []model.WallStripConfig, rollLength float64) bool {
	for _, st := range strips {
		if st.TotalLength > rollLength+eps {
			return false
		}
	}
	return true
}

// WallPlans yields every valid scored wall plan in enumeration order.
func WallPlans(req WallRequest, s model.Settings) iter.Seq[model.WallStripPlan] {
	return func(yield func(model.WallStripPlan) bool) {
		for p := range WallPartitions(req.Segments, s.RollLength) {
			for ws := range widthAssignments(req.Widths, len(p)) {
				strips := buildWallStrips(p, ws, req, s)
				if !validWallStrips(strips, s.RollLength) {
					continue
				}
				if !yield(scoreWallPlan(strips, req, s)) {
					return
				}
			}
		}
	}
}

// OptimizeWalls returns the best wall plan for the requested objective.
// Selection is a fold under a total order: score terms first, then fewer strips,
// then less foil, then enumeration order.
func OptimizeWalls(req WallRequest, s model.Settings) (model.WallStripPlan, error) {
	if len(req.Segments) == 0 || req.Height <= 0 {
		return model.WallStripPlan{RollCount: map[string]int{}}, nil
	}

	var best model.WallStripPlan
	found := false
	for plan := range WallPlans(req, s) {
		if !found || lessWallPlan(plan, best) {
			best = plan
			found = true
		}
	}
	if !found {
		longest := req.Segments[0]
		for _, seg := range req.Segments[1:] {
			if seg.Length > longest.Length {
				longest = seg
			}
		}
		return model.WallStripPlan{}, fmt.Errorf("%w: %s is %.2fm, roll is %.2fm", ErrNoWallPlan, longest.Label, longest.Length, s.RollLength)
	}
	return best, nil
}

// lessWallPlan orders plans strictly. Equal plans keep the earlier one because the
// fold only replaces on strictly less.
func lessWallPlan(a, b model.WallStripPlan) bool {
	if c := compareTerms(a.Score, b.Score); c != 0 {
		return c < 0
	}
	if a.StripCount != b.StripCount {
		return a.StripCount < b.StripCount
	}
	return a.TotalArea < b.TotalArea-eps
}

// compareTerms compares two score vectors lexicographically, ignoring float noise.
func compareTerms(a, b []float64) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if math.Abs(a[i]-b[i]) <= eps {
			continue
		}
		if a[i] < b[i] {
			return -1
		}
		return 1
	}
	return len(a) - len(b)
}
