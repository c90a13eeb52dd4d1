// Package export writes cut lists for the workshop and the quote.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/FoilCut/internal/model"
)

// Sheet names in the exported workbook.
const (
	SheetSurfaces = "Surfaces"
	SheetRolls    = "Rolls"
	SheetOffcuts  = "Offcuts"
	SheetPricing  = "Pricing"
)

// ExportXLSX writes the configuration as a workbook to path.
func ExportXLSX(path string, job model.Job, cfg model.MixConfiguration) error {
	f, err := buildWorkbook(job, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteXLSX writes the workbook to w.
func WriteXLSX(w io.Writer, job model.Job, cfg model.MixConfiguration) error {
	f, err := buildWorkbook(job, cfg)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(job model.Job, cfg model.MixConfiguration) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSurfaces); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetRolls, SheetOffcuts, SheetPricing} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, header: header}
	w.surfaces(cfg)
	w.rolls(cfg)
	w.offcuts(cfg)
	w.pricing(job, cfg)
	if w.err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", w.err)
	}
	return f, nil
}

// sheetWriter keeps the first error so the sheet builders read top to bottom.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) row(sheet string, n int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) headerRow(sheet string, titles ...interface{}) {
	w.row(sheet, 1, titles...)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(titles), 1)
	if err != nil {
		w.err = err
		return
	}
	if w.err = w.f.SetCellStyle(sheet, "A1", last, w.header); w.err != nil {
		return
	}
	lastCol, _ := excelize.ColumnNumberToName(len(titles))
	w.err = w.f.SetColWidth(sheet, "A", lastCol, 16)
}

func (w *sheetWriter) surfaces(cfg model.MixConfiguration) {
	w.headerRow(SheetSurfaces, "Surface", "Foil", "Roll width (m)", "Mixed", "Strips", "Strip length (m)",
		"Repetition", "Overlap (m)", "Edge waste (m)", "Area (m²)", "Waste (m²)", "Weld (m²)")
	for i, c := range cfg.Surfaces {
		w.row(SheetSurfaces, i+2, c.Label, string(c.Foil), float64(c.RollWidth), c.Mixed, c.StripCount,
			round2(c.StripLength), c.Repetition, round2(c.ActualOverlap), round2(c.EdgeWasteWidth),
			round2(c.Area), round2(c.WasteArea), round2(c.WeldArea))
	}
}

func (w *sheetWriter) rolls(cfg model.MixConfiguration) {
	w.headerRow(SheetRolls, "Roll", "Foil", "Width (m)", "Used (m)", "Remaining (m)", "Utilization %", "Strips")
	for i, r := range cfg.Rolls {
		w.row(SheetRolls, i+2, r.Number, string(r.Foil), float64(r.RollWidth), round2(r.UsedLength),
			round2(r.WasteLength), round2(r.Utilization()), stripList(r.Strips))
	}
}

func (w *sheetWriter) offcuts(cfg model.MixConfiguration) {
	w.headerRow(SheetOffcuts, "Roll", "Foil", "Width (m)", "Length (m)", "Area (m²)")
	for i, o := range cfg.Offcuts {
		w.row(SheetOffcuts, i+2, o.RollNumber, string(o.Foil), float64(o.RollWidth), round2(o.Length), round2(o.Area))
	}
	if len(cfg.Offcuts) > 0 {
		w.row(SheetOffcuts, len(cfg.Offcuts)+2, "Total", "", "", "", round2(model.TotalOffcutArea(cfg.Offcuts)))
	}
}

func (w *sheetWriter) pricing(job model.Job, cfg model.MixConfiguration) {
	p := cfg.Pricing
	w.headerRow(SheetPricing, "Foil pool", "Material", "Rolls", "Strip area (m²)", "Reusable (m²)",
		"Unusable (m²)", "Chargeable (m²)", "Weld (m²)")
	w.row(SheetPricing, 2, "Main", job.MainMaterial.Name, p.Main.Rolls, round2(p.Main.StripArea),
		round2(p.Main.ReusableArea), round2(p.Main.UnusableArea), p.Main.ChargeableArea, p.Main.WeldArea)
	w.row(SheetPricing, 3, "Structural", job.StructuralMaterial.Name, p.Structural.Rolls, round2(p.Structural.StripArea),
		round2(p.Structural.ReusableArea), round2(p.Structural.UnusableArea), p.Structural.ChargeableArea, p.Structural.WeldArea)
	w.row(SheetPricing, 4, "Total", "", cfg.TotalRolls(), "", "", "", p.TotalChargeable, p.TotalWeldArea)
	w.row(SheetPricing, 6, "Objective", string(cfg.Objective))
	w.row(SheetPricing, 7, "Narrow rolls", cfg.NarrowRolls)
	w.row(SheetPricing, 8, "Wide rolls", cfg.WideRolls)
	w.row(SheetPricing, 9, "Waste %", round2(cfg.WastePercent))
}

// stripList renders the strips of a roll as "Bottom 10.00m, Wall strip 1 10.20m".
func stripList(strips []model.RollStrip) string {
	parts := make([]string, len(strips))
	for i, s := range strips {
		parts[i] = fmt.Sprintf("%s %.2fm", s.SurfaceLabel, s.Length)
	}
	return strings.Join(parts, ", ")
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
