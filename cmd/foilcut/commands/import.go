package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/FoilCut/internal/importer"
	"github.com/piwi3910/FoilCut/internal/model"
	"github.com/piwi3910/FoilCut/internal/project"
)

// batchRow is one line of the import summary.
type batchRow struct {
	Name string
	Cfg  model.MixConfiguration
	Err  error
}

func newImportCmd(a *app) *cobra.Command {
	var saveDir string
	cmd := &cobra.Command{
		Use:   "import <pools.csv|pools.xlsx>",
		Short: "Optimize every pool listed in a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := importer.ImportFile(args[0])
			for _, w := range res.Warnings {
				warnf(a.errOut, "warning: %s\n", w)
			}
			for _, e := range res.Errors {
				failf(a.errOut, "error: %s\n", e)
			}
			if len(res.Jobs) == 0 {
				return fmt.Errorf("no pools imported from %s", args[0])
			}

			inv, _, err := a.inventory()
			if err != nil {
				return err
			}
			s, err := a.settings()
			if err != nil {
				return err
			}

			rows := make([]batchRow, 0, len(res.Jobs))
			failed := 0
			for _, jf := range res.Jobs {
				if saveDir != "" {
					if err := project.WriteJobFile(filepath.Join(saveDir, project.JobFileName(jf.Name)), jf); err != nil {
						return err
					}
				}
				row := batchRow{Name: jf.Name}
				job, err := jf.Resolve(&inv, a.cfg)
				if err == nil {
					row.Cfg, err = a.optimize(cmd.Context(), s, job)
				}
				if err != nil {
					row.Err = err
					failed++
				}
				rows = append(rows, row)
			}

			printBatch(a.out, rows)
			if failed == len(rows) {
				return fmt.Errorf("none of the %d pools could be planned", len(rows))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "also write each imported pool as a job file in this directory")
	return cmd
}
