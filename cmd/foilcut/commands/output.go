package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/piwi3910/FoilCut/internal/engine"
	"github.com/piwi3910/FoilCut/internal/model"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	label   = color.New(color.Bold)
	good    = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	bad     = color.New(color.FgRed)
)

func successf(w io.Writer, format string, args ...interface{}) { good.Fprintf(w, format, args...) }
func warnf(w io.Writer, format string, args ...interface{})    { warn.Fprintf(w, format, args...) }
func failf(w io.Writer, format string, args ...interface{})    { bad.Fprintf(w, format, args...) }

// printReport renders one configuration for the workshop.
func printReport(w io.Writer, job model.Job, cfg model.MixConfiguration, s model.Settings) {
	p := job.Pool
	label.Fprintf(w, "%s", job.Name)
	fmt.Fprintf(w, "  (%s)\n", cfg.Objective)
	fmt.Fprintf(w, "Pool %.2f x %.2f m, depth %.2f m", p.Length, p.Width, p.Depth)
	if p.SlopeDepth > 0 {
		fmt.Fprintf(w, " to %.2f m", p.SlopeDepth)
	}
	fmt.Fprintln(w)

	heading.Fprintln(w, "\nSURFACES")
	for _, c := range cfg.Surfaces {
		if c.StripCount == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-16s %-10s %2d strips  %-22s %6.2fm x%d  overlap %.2f  waste %.2f m²\n",
			c.Label, c.Foil, c.StripCount, widthMix(c, s), c.StripLength, c.Repetition, c.ActualOverlap, c.WasteArea)
	}

	if cfg.WallPlan != nil && len(cfg.WallPlan.Strips) > 0 {
		segments := engine.WallSegments(p)
		heading.Fprintln(w, "\nWALL STRIPS")
		for i, st := range cfg.WallPlan.Strips {
			names := make([]string, len(st.Segments))
			for j, idx := range st.Segments {
				names[j] = segments[idx].Label
			}
			fmt.Fprintf(w, "  %2d  %-40s %6.2fm  %s  layers %d\n",
				i+1, strings.Join(names, " + "), st.TotalLength, st.RollWidth, st.Layers)
		}
		fmt.Fprintf(w, "  paired with bottom rolls: %d, extra rolls: %d\n", cfg.WallPlan.PairedPieces, cfg.WallPlan.ExtraRolls)
	}

	heading.Fprintln(w, "\nROLLS")
	for _, r := range cfg.Rolls {
		fmt.Fprintf(w, "  #%-3d %-10s %s  used %6.2f / %.2f m  ", r.Number, r.Foil, r.RollWidth, r.UsedLength, r.UsedLength+r.WasteLength)
		utilization(w, r.Utilization())
		fmt.Fprintln(w)
		for _, st := range r.Strips {
			fmt.Fprintf(w, "        %-24s %6.2fm\n", st.SurfaceLabel, st.Length)
		}
	}

	if len(cfg.Offcuts) > 0 {
		heading.Fprintln(w, "\nOFFCUTS")
		for _, o := range cfg.Offcuts {
			fmt.Fprintf(w, "  roll #%-3d %s x %.2fm  %.2f m²\n", o.RollNumber, o.RollWidth, o.Length, o.Area)
		}
		fmt.Fprintf(w, "  %d reusable offcuts, %.2f m² total\n", len(cfg.Offcuts), model.TotalOffcutArea(cfg.Offcuts))
	}

	heading.Fprintln(w, "\nPRICING")
	pr := cfg.Pricing
	pool := func(name, material string, fp model.FoilPoolPrice) {
		fmt.Fprintf(w, "  %-11s %-28s %2d rolls  strips %7.2f  reusable %6.2f  unusable %6.2f  chargeable %4.0f m²  weld %.1f m²\n",
			name, material, fp.Rolls, fp.StripArea, fp.ReusableArea, fp.UnusableArea, fp.ChargeableArea, fp.WeldArea)
	}
	pool("Main", job.MainMaterial.Name, pr.Main)
	if pr.Structural.Rolls > 0 {
		pool("Structural", job.StructuralMaterial.Name, pr.Structural)
	}
	label.Fprintf(w, "  Total chargeable %.0f m², weld %.1f m²\n", pr.TotalChargeable, pr.TotalWeldArea)

	est := model.CalculatePurchaseEstimate(engine.BuildSurfaces(p, job.MainMaterial, job.StructuralMaterial, s),
		s.NarrowWidth, s.RollLength, 0)
	fmt.Fprintf(w, "  %d narrow + %d wide rolls, waste %.1f%% (area-only lower bound %d narrow rolls)\n",
		cfg.NarrowRolls, cfg.WideRolls, cfg.WastePercent, est.RollsNeededMin)
}

func widthMix(c model.SurfaceRollConfig, s model.Settings) string {
	if c.Key.IsWall() || !c.Mixed {
		return fmt.Sprintf("%dx%s", c.StripCount, c.RollWidth)
	}
	return fmt.Sprintf("%dx%s + %dx%s", c.WideStrips, s.WideWidth, c.NarrowStrips, s.NarrowWidth)
}

func utilization(w io.Writer, pct float64) {
	c := good
	switch {
	case pct < 50:
		c = bad
	case pct < 80:
		c = warn
	}
	c.Fprintf(w, "%5.1f%%", pct)
}

// printComparison renders one line per scenario.
func printComparison(w io.Writer, job model.Job, results []engine.ComparisonResult) {
	label.Fprintf(w, "%s\n", job.Name)
	heading.Fprintf(w, "  %-20s %6s %6s %6s %7s %8s %11s\n", "SCENARIO", "ROLLS", "NARROW", "WIDE", "STRIPS", "WASTE", "CHARGEABLE")
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 || r.ChargeableArea < results[best].ChargeableArea {
			best = i
		}
	}
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "  %-20s ", r.Scenario.Name)
			bad.Fprintf(w, "%v\n", r.Err)
			continue
		}
		line := fmt.Sprintf("  %-20s %6d %6d %6d %7d %7.1f%% %9.0f m²", r.Scenario.Name,
			r.Rolls, r.NarrowRolls, r.WideRolls, r.Strips, r.WastePercent, r.ChargeableArea)
		if i == best {
			good.Fprintln(w, line+"  *")
		} else {
			fmt.Fprintln(w, line)
		}
	}
}

func printMaterials(w io.Writer, inv model.Inventory) {
	heading.Fprintf(w, "%-10s %-32s %-10s %-7s %s\n", "ID", "NAME", "FAMILY", "JOINT", "FLAGS")
	for _, m := range inv.Materials {
		var flags []string
		if m.NarrowOnly {
			flags = append(flags, "narrow-only")
		}
		if m.Structural {
			flags = append(flags, "structural")
		}
		joint := m.Joint
		if joint == "" {
			joint = model.JointWelded
		}
		fmt.Fprintf(w, "%-10s %-32s %-10s %-7s %s\n", m.ID, m.Name, m.Family, joint, strings.Join(flags, ","))
	}
}

func printBatch(w io.Writer, rows []batchRow) {
	heading.Fprintf(w, "%-24s %6s %6s %8s %11s\n", "POOL", "NARROW", "WIDE", "WASTE", "CHARGEABLE")
	var rolls int
	var area float64
	for _, r := range rows {
		if r.Err != nil {
			fmt.Fprintf(w, "%-24s ", r.Name)
			bad.Fprintf(w, "%v\n", r.Err)
			continue
		}
		fmt.Fprintf(w, "%-24s %6d %6d %7.1f%% %9.0f m²\n", r.Name, r.Cfg.NarrowRolls, r.Cfg.WideRolls,
			r.Cfg.WastePercent, r.Cfg.Pricing.TotalChargeable)
		rolls += r.Cfg.TotalRolls()
		area += r.Cfg.Pricing.TotalChargeable
	}
	label.Fprintf(w, "%-24s %13d rolls %9.0f m²\n", "Total", rolls, area)
}
