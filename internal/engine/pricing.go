package engine

import (
	"math"

	"github.com/piwi3910/FoilCut/internal/model"
)

// PriceFoil computes the chargeable foil area for the main and structural pools.
// Each pool is charged its strip area less reusable offcuts plus roll ends too
// short to reuse, rounded up to the next whole m² and never below zero.
func PriceFoil(rolls []model.RollAllocation, surfaces []model.SurfaceRollConfig, s model.Settings) model.FoilPricingResult {
	var main, structural model.FoilPoolPrice

	for _, r := range rolls {
		p := &main
		if r.Foil == model.FoilStructural {
			p = &structural
		}
		w := float64(r.RollWidth)
		p.Rolls++
		p.StripArea += r.UsedLength * w
		rest := r.WasteLength * w
		if model.IsReusable(r.WasteLength, s.ReuseThreshold) {
			p.ReusableArea += rest
		} else {
			p.UnusableArea += rest
		}
	}

	for _, c := range surfaces {
		if c.Foil == model.FoilStructural {
			structural.WeldArea += c.WeldArea
		} else {
			main.WeldArea += c.WeldArea
		}
	}

	finish(&main)
	finish(&structural)

	return model.FoilPricingResult{
		Main:            main,
		Structural:      structural,
		TotalChargeable: main.ChargeableArea + structural.ChargeableArea,
		TotalWeldArea:   roundTenth(main.WeldArea + structural.WeldArea),
	}
}

func finish(p *model.FoilPoolPrice) {
	p.ChargeableArea = math.Max(0, math.Ceil(p.StripArea-p.ReusableArea+p.UnusableArea-eps))
	p.WeldArea = roundTenth(p.WeldArea)
}

func roundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
