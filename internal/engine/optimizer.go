package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/piwi3910/FoilCut/internal/model"
)

// Optimizer plans how to cut the liner of a pool from stock rolls.
type Optimizer struct {
	Settings model.Settings
	Logger   *slog.Logger
}

// Option defines a functional configuration override.
type Option func(*Optimizer)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.Logger = l
		}
	}
}

func New(settings model.Settings, opts ...Option) *Optimizer {
	o := &Optimizer{
		Settings: settings,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize computes the full cutting configuration for a job.
// Under the minRolls objective the minWaste configuration is evaluated as well and
// kept when it needs strictly fewer rolls, so asking for fewer rolls never costs rolls.
func (o *Optimizer) Optimize(job model.Job) (model.MixConfiguration, error) {
	if err := o.Settings.Validate(); err != nil {
		return model.MixConfiguration{}, fmt.Errorf("invalid settings: %w", err)
	}
	if err := job.Pool.Validate(); err != nil {
		return model.MixConfiguration{}, err
	}

	objective := job.Objective
	if objective == "" {
		objective = model.ObjectiveMinWaste
	}

	cfg, err := o.optimizeFor(job, objective)
	if err != nil {
		return model.MixConfiguration{}, err
	}

	if objective == model.ObjectiveMinRolls {
		alt, err := o.optimizeFor(job, model.ObjectiveMinWaste)
		if err == nil && alt.TotalRolls() < cfg.TotalRolls() {
			o.Logger.Debug("minWaste configuration needs fewer rolls, keeping it",
				"min_rolls", cfg.TotalRolls(), "min_waste", alt.TotalRolls())
			alt.Objective = objective
			cfg = alt
		}
	}

	return cfg, nil
}

func (o *Optimizer) optimizeFor(job model.Job, objective model.Objective) (model.MixConfiguration, error) {
	s := o.Settings
	surfaces := BuildSurfaces(job.Pool, job.MainMaterial, job.StructuralMaterial, s)

	result := model.MixConfiguration{Objective: objective}
	var bottom model.SurfaceRollConfig
	var wallSurfaces []model.Surface

	for _, surf := range surfaces {
		if surf.Key.IsWall() {
			wallSurfaces = append(wallSurfaces, surf)
			continue
		}
		cfg := o.ChooseSurfaceCut(surf, o.narrowOnly(job, surf), job.Overrides, objective)
		if surf.Key == model.SurfaceBottom {
			bottom = cfg
		}
		result.Surfaces = append(result.Surfaces, cfg)
	}

	plan, wallCfgs, err := o.planWalls(job, wallSurfaces, bottom, objective)
	if err != nil {
		return model.MixConfiguration{}, err
	}
	result.WallPlan = plan
	result.Surfaces = insertWallConfigs(result.Surfaces, wallCfgs)

	// Every strip goes through the final packing, in catalog order
	var pieces []StripPiece
	for _, cfg := range result.Surfaces {
		if cfg.Key.IsWall() {
			continue
		}
		pieces = append(pieces, surfacePieces(cfg, s)...)
	}
	if plan != nil {
		pieces = append(pieces, wallPieces(plan.Strips, WallRequest{Foil: model.FoilMain})...)
	}

	rolls, unplaced := PackRolls(pieces, s)
	if err := unplacedError(unplaced, s.RollLength); err != nil {
		return model.MixConfiguration{}, err
	}

	result.Rolls = rolls
	result.NarrowRolls, result.WideRolls = CountRolls(rolls, s)
	result.Offcuts = model.DetectOffcuts(rolls, s.ReuseThreshold)
	result.Pricing = PriceFoil(rolls, result.Surfaces, s)
	result.WastePercent = wastePercent(rolls, result.Surfaces, s)

	o.Logger.Debug("configuration built",
		"objective", objective,
		"rolls", result.TotalRolls(),
		"narrow", result.NarrowRolls,
		"wide", result.WideRolls,
		"waste_percent", result.WastePercent)

	return result, nil
}

// narrowOnly reports whether a surface is restricted to the narrow width.
// Structural surfaces always are.
func (o *Optimizer) narrowOnly(job model.Job, surf model.Surface) bool {
	if surf.Foil == model.FoilStructural {
		return true
	}
	return job.MainMaterial.NarrowWidthOnly()
}

// cutOption is one way of cutting a surface.
type cutOption struct {
	name      string
	width     model.RollWidth
	wide      int // Wide strips in a mixed cut
	res       model.StripWidthResult
	wasteArea float64
}

// ChooseSurfaceCut picks the roll width for one surface. Forced-narrow surfaces only
// get the narrow width. Otherwise narrow, wide and a mix of wide strips with one narrow
// remainder compete: least waste then fewest strips for minWaste, fewest strips then
// least waste for minRolls. An override replaces the choice unless the surface is
// forced narrow.
func (o *Optimizer) ChooseSurfaceCut(surf model.Surface, narrowOnly bool, overrides map[model.SurfaceKey]model.RollWidth, objective model.Objective) model.SurfaceRollConfig {
	s := o.Settings
	cfg := model.SurfaceRollConfig{
		Key:         surf.Key,
		Label:       surf.Label,
		Foil:        surf.Foil,
		RollWidth:   s.NarrowWidth,
		StripLength: surf.StripLength,
		Repetition:  surf.Repetition,
	}
	if surf.CoverWidth <= 0 || surf.StripLength <= 0 || surf.Repetition <= 0 {
		cfg.Repetition = 0
		return cfg
	}

	option := func(w model.RollWidth) cutOption {
		res := CalculateStripsForWidth(surf.CoverWidth, w, surf.MinOverlap, surf.MaxOverlap)
		return cutOption{name: w.String(), width: w, res: res, wasteArea: res.EdgeWasteWidth * surf.StripLength}
	}

	options := []cutOption{option(s.NarrowWidth)}
	forced, hasOverride := overrides[surf.Key]
	switch {
	case narrowOnly:
		if hasOverride && forced != s.NarrowWidth {
			o.Logger.Warn("ignoring width override on narrow-only surface", "surface", surf.Label, "width", forced)
		}
	case hasOverride && (forced == s.NarrowWidth || forced == s.WideWidth):
		options = []cutOption{option(forced)}
	default:
		if hasOverride {
			o.Logger.Warn("ignoring unknown width override", "surface", surf.Label, "width", forced)
		}
		options = append(options, option(s.WideWidth))
		if mix, ok := calculateMixedStrips(surf.CoverWidth, s.NarrowWidth, s.WideWidth, surf.MinOverlap, surf.MaxOverlap); ok {
			options = append(options, cutOption{
				name:      "mix",
				width:     s.WideWidth,
				wide:      mix.wide,
				res:       mix.result,
				wasteArea: mix.result.EdgeWasteWidth * surf.StripLength,
			})
		}
	}

	best := options[0]
	for _, opt := range options[1:] {
		if betterCut(opt, best, objective) {
			best = opt
		}
	}

	o.Logger.Debug("surface cut selected",
		"surface", surf.Label,
		"option", best.name,
		"strips", best.res.Count,
		"waste_area", best.wasteArea)

	rep := float64(surf.Repetition)
	cfg.RollWidth = best.width
	cfg.StripCount = best.res.Count
	cfg.ActualOverlap = best.res.ActualOverlap
	cfg.EdgeWasteWidth = best.res.EdgeWasteWidth
	cfg.Area = best.res.MaterialWidthUsed * surf.StripLength * rep
	cfg.WasteArea = best.wasteArea * rep
	cfg.WeldArea = float64(max(best.res.Count-1, 0)) * best.res.ActualOverlap * surf.StripLength * rep
	switch {
	case best.wide > 0:
		cfg.Mixed = true
		cfg.WideStrips = best.wide
		cfg.NarrowStrips = best.res.Count - best.wide
	case best.width == s.WideWidth:
		cfg.WideStrips = best.res.Count
	default:
		cfg.NarrowStrips = best.res.Count
	}
	return cfg
}

// betterCut reports whether a is strictly better than b for the objective.
func betterCut(a, b cutOption, objective model.Objective) bool {
	if objective == model.ObjectiveMinRolls {
		if a.res.Count != b.res.Count {
			return a.res.Count < b.res.Count
		}
		return a.wasteArea < b.wasteArea-eps
	}
	if d := a.wasteArea - b.wasteArea; d < -eps || d > eps {
		return d < 0
	}
	return a.res.Count < b.res.Count
}

// planWalls runs the partition search over the perimeter and apportions the chosen
// plan back onto the long and short wall surfaces.
func (o *Optimizer) planWalls(job model.Job, walls []model.Surface, bottom model.SurfaceRollConfig, objective model.Objective) (*model.WallStripPlan, []model.SurfaceRollConfig, error) {
	if len(walls) == 0 {
		return nil, nil, nil
	}
	s := o.Settings
	height := walls[0].CoverWidth

	widths := AdmissibleWallWidths(height, job.MainMaterial.NarrowWidthOnly(), s)
	for _, key := range []model.SurfaceKey{model.SurfaceWallLong, model.SurfaceWallShort} {
		w, ok := job.Overrides[key]
		if !ok {
			continue
		}
		if w == s.NarrowWidth || (w == s.WideWidth && !job.MainMaterial.NarrowWidthOnly()) {
			widths = []model.RollWidth{w}
		} else {
			o.Logger.Warn("ignoring wall width override", "width", w)
		}
		break
	}

	segments := WallSegments(job.Pool)
	req := WallRequest{
		Segments:   segments,
		Height:     height,
		Widths:     widths,
		MinOverlap: walls[0].MinOverlap,
		MaxOverlap: walls[0].MaxOverlap,
		Bottom:     surfacePieces(bottom, s),
		Foil:       model.FoilMain,
		Objective:  objective,
	}
	plan, err := OptimizeWalls(req, s)
	if err != nil {
		return nil, nil, err
	}

	o.Logger.Debug("wall plan selected",
		"strips", len(plan.Strips),
		"pieces", plan.StripCount,
		"paired", plan.PairedPieces,
		"extra_rolls", plan.ExtraRolls,
		"score", plan.Score)

	cfgs := make([]model.SurfaceRollConfig, 0, len(walls))
	for _, w := range walls {
		cfgs = append(cfgs, apportionWall(w, plan, segments, req, s))
	}
	return &plan, cfgs, nil
}

// apportionWall summarises the share of a wall plan that covers the segments of one
// wall surface. Vertical overlap is shared out in proportion to segment length.
func apportionWall(w model.Surface, plan model.WallStripPlan, segments []model.WallSegment, req WallRequest, s model.Settings) model.SurfaceRollConfig {
	cfg := model.SurfaceRollConfig{
		Key:         w.Key,
		Label:       w.Label,
		Foil:        w.Foil,
		RollWidth:   s.NarrowWidth,
		StripLength: w.StripLength,
		Repetition:  w.Repetition,
	}

	stripOf := make(map[int]int)
	for i, st := range plan.Strips {
		for _, seg := range st.Segments {
			stripOf[seg] = i
		}
	}

	first := true
	for idx, seg := range segments {
		if isLongSegment(idx) != (w.Key == model.SurfaceWallLong) {
			continue
		}
		si, ok := stripOf[idx]
		if !ok {
			continue
		}
		st := plan.Strips[si]
		res := CalculateStripsForWidth(req.Height, st.RollWidth, req.MinOverlap, req.MaxOverlap)

		share := seg.Length
		if st.BaseLength > 0 {
			share += st.VerticalOverlap * seg.Length / st.BaseLength
		}
		cfg.Area += res.MaterialWidthUsed * share
		cfg.WasteArea += res.EdgeWasteWidth * share
		cfg.WeldArea += float64(max(res.Count-1, 0)) * res.ActualOverlap * share
		cfg.WeldArea += (share - seg.Length) * res.MaterialWidthUsed

		if first {
			cfg.RollWidth = st.RollWidth
			cfg.StripCount = res.Count
			cfg.ActualOverlap = res.ActualOverlap
			cfg.EdgeWasteWidth = res.EdgeWasteWidth
			if st.RollWidth == s.WideWidth {
				cfg.WideStrips = res.Count
			} else {
				cfg.NarrowStrips = res.Count
			}
			first = false
		} else if st.RollWidth != cfg.RollWidth {
			cfg.Mixed = true
		}
	}
	return cfg
}

func isLongSegment(idx int) bool {
	return idx%2 == 0
}

// insertWallConfigs places the wall configurations right after the bottom so the
// surface list keeps catalog order.
func insertWallConfigs(cfgs, walls []model.SurfaceRollConfig) []model.SurfaceRollConfig {
	if len(walls) == 0 {
		return cfgs
	}
	out := make([]model.SurfaceRollConfig, 0, len(cfgs)+len(walls))
	inserted := false
	for _, c := range cfgs {
		out = append(out, c)
		if c.Key == model.SurfaceBottom && !inserted {
			out = append(out, walls...)
			inserted = true
		}
	}
	if !inserted {
		out = append(walls, out...)
	}
	return out
}

// wastePercent is the unusable share of all purchased roll area: edge waste across
// the strips plus roll remainders too short to reuse.
func wastePercent(rolls []model.RollAllocation, surfaces []model.SurfaceRollConfig, s model.Settings) float64 {
	var rollArea, waste float64
	for _, r := range rolls {
		rollArea += s.RollLength * float64(r.RollWidth)
		if !model.IsReusable(r.WasteLength, s.ReuseThreshold) {
			waste += r.WasteLength * float64(r.RollWidth)
		}
	}
	for _, c := range surfaces {
		waste += c.WasteArea
	}
	if rollArea == 0 {
		return 0
	}
	return clampZero(waste/rollArea) * 100.0
}
