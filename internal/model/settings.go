package model

import "fmt"

// Settings holds the physical constants of the roll stock and the welding process.
// One Settings value is fixed for the lifetime of an optimizer.
type Settings struct {
	RollLength         float64   `json:"roll_length" yaml:"roll_length" mapstructure:"roll_length"`                            // Stock roll length in m
	NarrowWidth        RollWidth `json:"narrow_width" yaml:"narrow_width" mapstructure:"narrow_width"`                         // Narrow roll width in m
	WideWidth          RollWidth `json:"wide_width" yaml:"wide_width" mapstructure:"wide_width"`                               // Wide roll width in m
	MinOverlap         float64   `json:"min_overlap" yaml:"min_overlap" mapstructure:"min_overlap"`                            // Minimum weld overlap between parallel strips
	MaxOverlap         float64   `json:"max_overlap" yaml:"max_overlap" mapstructure:"max_overlap"`                            // Maximum useful weld overlap
	WallSeamOverlap    float64   `json:"wall_seam_overlap" yaml:"wall_seam_overlap" mapstructure:"wall_seam_overlap"`          // Overlap added per vertical wall seam
	ReuseThreshold     float64   `json:"reuse_threshold" yaml:"reuse_threshold" mapstructure:"reuse_threshold"`                // Shortest roll remainder worth keeping
	FoldAllowance      float64   `json:"fold_allowance" yaml:"fold_allowance" mapstructure:"fold_allowance"`                   // Extra wall height for the bottom fold
	DepthComfortMargin float64   `json:"depth_comfort_margin" yaml:"depth_comfort_margin" mapstructure:"depth_comfort_margin"` // Wall height band below narrow width where wide rolls are also tried
}

// DefaultSettings returns the stock dimensions of the standard liner rolls.
func DefaultSettings() Settings {
	return Settings{
		RollLength:         25.0,
		NarrowWidth:        1.65,
		WideWidth:          2.05,
		MinOverlap:         0.05,
		MaxOverlap:         0.10,
		WallSeamOverlap:    0.10,
		ReuseThreshold:     2.0,
		FoldAllowance:      0.15,
		DepthComfortMargin: 0.10,
	}
}

// Widths returns the admissible roll widths, narrow first.
func (s Settings) Widths(narrowOnly bool) []RollWidth {
	if narrowOnly {
		return []RollWidth{s.NarrowWidth}
	}
	return []RollWidth{s.NarrowWidth, s.WideWidth}
}

// Validate rejects settings under which no plan can be produced.
func (s Settings) Validate() error {
	switch {
	case s.RollLength <= 0:
		return fmt.Errorf("roll length must be positive, got %g", s.RollLength)
	case s.NarrowWidth <= 0 || s.WideWidth <= 0:
		return fmt.Errorf("roll widths must be positive, got %g and %g", s.NarrowWidth, s.WideWidth)
	case s.NarrowWidth >= s.WideWidth:
		return fmt.Errorf("narrow width %g must be below wide width %g", s.NarrowWidth, s.WideWidth)
	case s.MinOverlap < 0 || s.MaxOverlap < s.MinOverlap:
		return fmt.Errorf("overlap bounds [%g, %g] are invalid", s.MinOverlap, s.MaxOverlap)
	case s.MinOverlap >= float64(s.NarrowWidth):
		return fmt.Errorf("min overlap %g must be below the narrow width", s.MinOverlap)
	case s.WallSeamOverlap < 0 || s.ReuseThreshold < 0 || s.FoldAllowance < 0 || s.DepthComfortMargin < 0:
		return fmt.Errorf("allowances must not be negative")
	}
	return nil
}
