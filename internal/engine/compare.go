package engine

import (
	"log/slog"

	"github.com/piwi3910/FoilCut/internal/model"
)

// ComparisonScenario defines a named variation of a job to compare.
type ComparisonScenario struct {
	Name       string
	Objective  model.Objective
	Settings   model.Settings
	NarrowOnly bool // Restrict the main material to the narrow width
}

// ComparisonResult holds the configuration and headline figures for one scenario.
type ComparisonResult struct {
	Scenario       ComparisonScenario
	Result         model.MixConfiguration
	Rolls          int
	NarrowRolls    int
	WideRolls      int
	Strips         int
	WastePercent   float64
	ChargeableArea float64
	Err            error
}

// CompareScenarios optimizes the job once per scenario and returns the results in
// scenario order. A scenario that cannot be planned is reported with its error
// rather than aborting the comparison.
func CompareScenarios(scenarios []ComparisonScenario, job model.Job, logger *slog.Logger) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		j := job
		j.Objective = scenario.Objective
		if scenario.NarrowOnly {
			j.MainMaterial.NarrowOnly = true
		}

		opt := New(scenario.Settings, WithLogger(logger))
		cfg, err := opt.Optimize(j)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		results = append(results, ComparisonResult{
			Scenario:       scenario,
			Result:         cfg,
			Rolls:          cfg.TotalRolls(),
			NarrowRolls:    cfg.NarrowRolls,
			WideRolls:      cfg.WideRolls,
			Strips:         cfg.TotalStrips(),
			WastePercent:   cfg.WastePercent,
			ChargeableArea: cfg.Pricing.TotalChargeable,
		})
	}

	return results
}

// BuildDefaultScenarios returns the standard what-if set for a job: both objectives,
// and the narrow-only cut when the main material allows the wide width at all.
func BuildDefaultScenarios(base model.Settings, main model.Material) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Minimum waste", Objective: model.ObjectiveMinWaste, Settings: base},
		{Name: "Minimum rolls", Objective: model.ObjectiveMinRolls, Settings: base},
	}

	if !main.NarrowWidthOnly() {
		scenarios = append(scenarios, ComparisonScenario{
			Name:       "Narrow rolls only",
			Objective:  model.ObjectiveMinWaste,
			Settings:   base,
			NarrowOnly: true,
		})
	}

	return scenarios
}
