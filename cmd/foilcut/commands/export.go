package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/FoilCut/internal/export"
	"github.com/piwi3910/FoilCut/internal/project"
)

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <job.yaml>",
		Short: "Write the cut list as an .xlsx workbook or a .csv roll list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := strings.ToLower(filepath.Ext(output))
			if ext != ".xlsx" && ext != ".csv" {
				return fmt.Errorf("%w: %q (use .xlsx or .csv)", project.ErrUnsupportedFormat, output)
			}

			job, err := a.loadJob(args[0])
			if err != nil {
				return err
			}
			s, err := a.settings()
			if err != nil {
				return err
			}
			cfg, err := a.optimize(cmd.Context(), s, job)
			if err != nil {
				return err
			}

			if ext == ".xlsx" {
				err = export.ExportXLSX(output, job, cfg)
			} else {
				err = export.ExportRollsCSV(output, cfg)
			}
			if err != nil {
				return err
			}
			successf(a.out, "Wrote %s (%d rolls)\n", output, cfg.TotalRolls())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "cut.xlsx", "output file (.xlsx or .csv)")
	return cmd
}
