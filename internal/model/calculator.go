package model

import "math"

// PurchaseEstimate holds a quick area-based roll estimate made without strip planning.
type PurchaseEstimate struct {
	TotalSurfaceArea float64 `json:"total_surface_area"` // m² of all surfaces, repetitions included
	RollArea         float64 `json:"roll_area"`          // m² of one roll
	RollsNeededExact float64 `json:"rolls_needed_exact"` // Fractional number of rolls
	RollsNeededMin   int     `json:"rolls_needed_min"`   // Ceiling of the exact figure
	RollsWithWaste   int     `json:"rolls_with_waste"`   // Including the waste factor
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied, e.g. 15 for 15%
}

// CalculatePurchaseEstimate sizes a purchase from surface area alone.
// It is a lower bound on what the strip planner will need and is used to
// sanity-check optimizer output.
func CalculatePurchaseEstimate(surfaces []Surface, rollWidth RollWidth, rollLength, wastePercent float64) PurchaseEstimate {
	var total float64
	for _, s := range surfaces {
		if s.StripLength <= 0 || s.CoverWidth <= 0 || s.Repetition <= 0 {
			continue
		}
		total += s.StripLength * s.CoverWidth * float64(s.Repetition)
	}

	rollArea := float64(rollWidth) * rollLength
	if rollArea <= 0 {
		return PurchaseEstimate{
			TotalSurfaceArea: total,
			WastePercent:     wastePercent,
		}
	}

	exact := total / rollArea
	minRolls := int(math.Ceil(exact))
	withWaste := int(math.Ceil(exact * (1.0 + wastePercent/100.0)))
	if withWaste < minRolls {
		withWaste = minRolls
	}

	return PurchaseEstimate{
		TotalSurfaceArea: total,
		RollArea:         rollArea,
		RollsNeededExact: exact,
		RollsNeededMin:   minRolls,
		RollsWithWaste:   withWaste,
		WastePercent:     wastePercent,
	}
}
