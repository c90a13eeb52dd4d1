package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when pool dimensions cannot describe a real container.
var ErrInvalidGeometry = errors.New("invalid pool geometry")

// Objective selects what the optimizer minimises.
type Objective string

const (
	ObjectiveMinWaste Objective = "minWaste" // Least unusable material
	ObjectiveMinRolls Objective = "minRolls" // Fewest rolls purchased
)

// ParseObjective accepts the canonical names plus a few spellings used on the command line.
func ParseObjective(s string) (Objective, error) {
	switch s {
	case "minWaste", "minwaste", "waste", "min-waste":
		return ObjectiveMinWaste, nil
	case "minRolls", "minrolls", "rolls", "min-rolls":
		return ObjectiveMinRolls, nil
	}
	return "", fmt.Errorf("unknown objective %q", s)
}

// SurfaceKey identifies the kind of surface being covered.
type SurfaceKey string

const (
	SurfaceBottom       SurfaceKey = "bottom"
	SurfaceWallLong     SurfaceKey = "wall-long"
	SurfaceWallShort    SurfaceKey = "wall-short"
	SurfaceStairs       SurfaceKey = "stairs"
	SurfacePaddling     SurfaceKey = "paddling"
	SurfaceDividingWall SurfaceKey = "dividing-wall"
)

// IsWall reports whether the surface belongs to the perimeter walls.
func (k SurfaceKey) IsWall() bool {
	return k == SurfaceWallLong || k == SurfaceWallShort
}

// FoilAssignment classifies a surface into the main liner pool or the structural
// (anti-slip) pool.
type FoilAssignment string

const (
	FoilMain       FoilAssignment = "main"
	FoilStructural FoilAssignment = "structural"
)

// RollWidth is the width of a stock roll in metres.
type RollWidth float64

func (w RollWidth) String() string {
	return fmt.Sprintf("%.2fm", float64(w))
}

// Stairs describes a straight staircase entering the pool.
type Stairs struct {
	StepCount int     `json:"step_count" yaml:"step_count"`
	StepDepth float64 `json:"step_depth" yaml:"step_depth"` // Tread depth in m
	Width     float64 `json:"width" yaml:"width"`           // Ignored when Full is set
	Full      bool    `json:"full" yaml:"full"`             // Stairs span the full pool width
}

// Paddling describes a shallow paddling area with an optional dividing wall.
type Paddling struct {
	Width              float64 `json:"width" yaml:"width"`
	Length             float64 `json:"length" yaml:"length"`
	Depth              float64 `json:"depth" yaml:"depth"`
	DividingWallOffset float64 `json:"dividing_wall_offset" yaml:"dividing_wall_offset"` // 0 = no dividing wall
}

// Pool is the container geometry consumed by the optimizer. All values in metres.
type Pool struct {
	Length     float64   `json:"length" yaml:"length"`
	Width      float64   `json:"width" yaml:"width"`
	Depth      float64   `json:"depth" yaml:"depth"`
	SlopeDepth float64   `json:"slope_depth,omitempty" yaml:"slope_depth,omitempty"` // Deep end depth; 0 = flat bottom
	Stairs     *Stairs   `json:"stairs,omitempty" yaml:"stairs,omitempty"`
	Paddling   *Paddling `json:"paddling,omitempty" yaml:"paddling,omitempty"`
}

// MaxDepth returns the deepest point of the pool.
func (p Pool) MaxDepth() float64 {
	return math.Max(p.Depth, p.SlopeDepth)
}

// Validate checks that the geometry is finite and positive where required.
func (p Pool) Validate() error {
	check := func(name string, v float64, required bool) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidGeometry, name)
		}
		if v < 0 || (required && v == 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidGeometry, name, v)
		}
		return nil
	}
	if err := check("length", p.Length, true); err != nil {
		return err
	}
	if err := check("width", p.Width, true); err != nil {
		return err
	}
	if err := check("depth", p.Depth, true); err != nil {
		return err
	}
	if err := check("slope_depth", p.SlopeDepth, false); err != nil {
		return err
	}
	if s := p.Stairs; s != nil {
		if s.StepCount < 0 {
			return fmt.Errorf("%w: stairs step_count must not be negative", ErrInvalidGeometry)
		}
		if err := check("stairs.step_depth", s.StepDepth, false); err != nil {
			return err
		}
		if err := check("stairs.width", s.Width, false); err != nil {
			return err
		}
		if !s.Full && s.Width > p.Width {
			return fmt.Errorf("%w: stairs wider than pool (%g > %g)", ErrInvalidGeometry, s.Width, p.Width)
		}
	}
	if pd := p.Paddling; pd != nil {
		if err := check("paddling.width", pd.Width, false); err != nil {
			return err
		}
		if err := check("paddling.length", pd.Length, false); err != nil {
			return err
		}
		if err := check("paddling.depth", pd.Depth, false); err != nil {
			return err
		}
		if err := check("paddling.dividing_wall_offset", pd.DividingWallOffset, false); err != nil {
			return err
		}
	}
	return nil
}

// Job is one optimization request: geometry, material choice and objective.
type Job struct {
	Name               string                   `json:"name" yaml:"name"`
	Pool               Pool                     `json:"pool" yaml:"pool"`
	MainMaterial       Material                 `json:"main_material" yaml:"main_material"`
	StructuralMaterial Material                 `json:"structural_material" yaml:"structural_material"`
	Objective          Objective                `json:"objective" yaml:"objective"`
	Overrides          map[SurfaceKey]RollWidth `json:"overrides,omitempty" yaml:"overrides,omitempty"` // Forced widths per surface
}

// Surface is a covering requirement derived from the pool geometry.
type Surface struct {
	Key         SurfaceKey     `json:"key"`
	Label       string         `json:"label"`
	StripLength float64        `json:"strip_length"` // Along the roll length axis
	CoverWidth  float64        `json:"cover_width"`  // Perpendicular span the strips must cover
	Repetition  int            `json:"repetition"`
	MinOverlap  float64        `json:"min_overlap"`
	MaxOverlap  float64        `json:"max_overlap"`
	Foil        FoilAssignment `json:"foil"`
}

// StripWidthResult is the outcome of spanning a cover width with strips of one roll width.
type StripWidthResult struct {
	Count             int     `json:"count"`
	ActualOverlap     float64 `json:"actual_overlap"`
	EdgeWasteWidth    float64 `json:"edge_waste_width"`
	MaterialWidthUsed float64 `json:"material_width_used"`
}

// Covered returns the width actually spanned by the strips laid edge to edge.
func (r StripWidthResult) Covered(rollWidth RollWidth) float64 {
	if r.Count == 0 {
		return 0
	}
	return float64(r.Count)*float64(rollWidth) - float64(r.Count-1)*r.ActualOverlap
}

// WallSegment is one edge of the pool perimeter. Segments are ordered cyclically.
type WallSegment struct {
	Label  string  `json:"label"`
	Length float64 `json:"length"`
}

// WallStripConfig is one continuous strip running around part of the perimeter.
type WallStripConfig struct {
	Segments        []int     `json:"segments"` // Indices into the segment list
	BaseLength      float64   `json:"base_length"`
	VerticalOverlap float64   `json:"vertical_overlap"`
	TotalLength     float64   `json:"total_length"`
	RollWidth       RollWidth `json:"roll_width"`
	Layers          int       `json:"layers"` // Horizontal strips needed to cover the wall height
}

// WallStripPlan is a complete candidate for cutting the walls.
type WallStripPlan struct {
	Strips             []WallStripConfig `json:"strips"`
	WasteArea          float64           `json:"waste_area"`
	ReusableOffcutArea float64           `json:"reusable_offcut_area"`
	PairedLeftover     float64           `json:"paired_leftover"`
	PairedPieces       int               `json:"paired_pieces"`
	ExtraRolls         int               `json:"extra_rolls"`
	RollCount          map[string]int    `json:"roll_count"` // Dedicated wall rolls keyed by width
	StripCount         int               `json:"strip_count"`
	TotalArea          float64           `json:"total_area"`
	Score              []float64         `json:"score"`
}

// SurfaceRollConfig is the chosen cutting for one surface.
type SurfaceRollConfig struct {
	Key            SurfaceKey     `json:"key"`
	Label          string         `json:"label"`
	Foil           FoilAssignment `json:"foil"`
	RollWidth      RollWidth      `json:"roll_width"` // Primary width; the wide one for mixed cuts
	Mixed          bool           `json:"mixed"`
	NarrowStrips   int            `json:"narrow_strips"` // Per repetition
	WideStrips     int            `json:"wide_strips"`   // Per repetition
	StripCount     int            `json:"strip_count"`   // Per repetition
	StripLength    float64        `json:"strip_length"`
	Repetition     int            `json:"repetition"`
	ActualOverlap  float64        `json:"actual_overlap"`
	EdgeWasteWidth float64        `json:"edge_waste_width"`
	Area           float64        `json:"area"`       // Strip area including overlap, all repetitions
	WasteArea      float64        `json:"waste_area"` // Edge waste area, all repetitions
	WeldArea       float64        `json:"weld_area"`
}

// StripWidths lists the width of each strip of one repetition, wide strips first.
func (c SurfaceRollConfig) StripWidths(narrow, wide RollWidth) []RollWidth {
	widths := make([]RollWidth, 0, c.StripCount)
	for i := 0; i < c.WideStrips; i++ {
		widths = append(widths, wide)
	}
	for i := 0; i < c.NarrowStrips; i++ {
		widths = append(widths, narrow)
	}
	return widths
}

// RollStrip is one strip placed on a roll.
type RollStrip struct {
	SurfaceLabel string  `json:"surface_label"`
	Length       float64 `json:"length"`
}

// RollAllocation is one physical roll and what is cut from it.
type RollAllocation struct {
	Number      int            `json:"number"`
	Foil        FoilAssignment `json:"foil"`
	RollWidth   RollWidth      `json:"roll_width"`
	UsedLength  float64        `json:"used_length"`
	WasteLength float64        `json:"waste_length"`
	Strips      []RollStrip    `json:"strips"`
}

// Utilization returns the used share of the roll as a percentage.
func (r RollAllocation) Utilization() float64 {
	total := r.UsedLength + r.WasteLength
	if total == 0 {
		return 0
	}
	return r.UsedLength / total * 100.0
}

// FoilPoolPrice is the chargeable quantity for one foil pool.
type FoilPoolPrice struct {
	StripArea      float64 `json:"strip_area"`
	ReusableArea   float64 `json:"reusable_area"`
	UnusableArea   float64 `json:"unusable_area"`
	ChargeableArea float64 `json:"chargeable_area"` // Whole m², rounded up
	WeldArea       float64 `json:"weld_area"`       // Rounded to 0.1 m²
	Rolls          int     `json:"rolls"`
}

// FoilPricingResult splits the chargeable area into the main and structural pools.
type FoilPricingResult struct {
	Main            FoilPoolPrice `json:"main"`
	Structural      FoilPoolPrice `json:"structural"`
	TotalChargeable float64       `json:"total_chargeable"`
	TotalWeldArea   float64       `json:"total_weld_area"`
}

// MixConfiguration is the complete result of optimizing one job.
type MixConfiguration struct {
	Objective    Objective           `json:"objective"`
	Surfaces     []SurfaceRollConfig `json:"surfaces"`
	WallPlan     *WallStripPlan      `json:"wall_plan,omitempty"`
	Rolls        []RollAllocation    `json:"rolls"`
	NarrowRolls  int                 `json:"narrow_rolls"`
	WideRolls    int                 `json:"wide_rolls"`
	WastePercent float64             `json:"waste_percent"`
	Offcuts      []Offcut            `json:"offcuts"`
	Pricing      FoilPricingResult   `json:"pricing"`
}

// TotalRolls returns the number of rolls of both widths.
func (mc MixConfiguration) TotalRolls() int {
	return mc.NarrowRolls + mc.WideRolls
}

// TotalStrips returns the number of strips placed on rolls.
func (mc MixConfiguration) TotalStrips() int {
	n := 0
	for _, r := range mc.Rolls {
		n += len(r.Strips)
	}
	return n
}

// Surface returns the configuration for the given key, if present.
func (mc MixConfiguration) Surface(key SurfaceKey) (SurfaceRollConfig, bool) {
	for _, s := range mc.Surfaces {
		if s.Key == key {
			return s, true
		}
	}
	return SurfaceRollConfig{}, false
}
