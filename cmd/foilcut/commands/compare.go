package commands

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/FoilCut/internal/engine"
)

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <job.yaml>",
		Short: "Compare minimum waste, minimum rolls and narrow-only plans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := a.loadJob(args[0])
			if err != nil {
				return err
			}
			s, err := a.settings()
			if err != nil {
				return err
			}

			results := engine.CompareScenarios(engine.BuildDefaultScenarios(s, job.MainMaterial), job, a.logger)
			printComparison(a.out, job, results)
			return nil
		},
	}
}
