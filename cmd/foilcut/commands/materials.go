package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/FoilCut/internal/model"
	"github.com/piwi3910/FoilCut/internal/project"
)

func newMaterialsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "materials",
		Aliases: []string{"mat"},
		Short:   "Manage the liner material inventory",
	}
	cmd.AddCommand(
		newMaterialsListCmd(a),
		newMaterialsAddCmd(a),
		newMaterialsImportCmd(a),
		newMaterialsExportCmd(a),
	)
	return cmd
}

func newMaterialsListCmd(a *app) *cobra.Command {
	var structural bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known materials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := a.inventory()
			if err != nil {
				return err
			}
			if structural {
				inv = model.Inventory{Materials: inv.Structural()}
			}
			printMaterials(a.out, inv)
			return nil
		},
	}
	cmd.Flags().BoolVar(&structural, "structural", false, "Only list structural (tread) materials")
	return cmd
}

func newMaterialsAddCmd(a *app) *cobra.Command {
	var (
		family     string
		narrowOnly bool
		butt       bool
		structural bool
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a material to the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, path, err := a.inventory()
			if err != nil {
				return err
			}
			if inv.FindByName(args[0]) != nil {
				return fmt.Errorf("material %q already exists", args[0])
			}

			joint := model.JointWelded
			if butt {
				joint = model.JointButt
			}
			m := model.NewMaterial(args[0], family, narrowOnly || structural, joint, structural)
			inv.Materials = append(inv.Materials, m)
			if err := project.SaveInventory(path, inv); err != nil {
				return fmt.Errorf("failed to save inventory: %w", err)
			}
			successf(a.out, "Added %s (%s)\n", m.Name, m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&family, "family", "pvc", "material family")
	cmd.Flags().BoolVar(&narrowOnly, "narrow-only", false, "only produced in the narrow width")
	cmd.Flags().BoolVar(&butt, "butt", false, "strips are butt jointed instead of welded with overlap")
	cmd.Flags().BoolVar(&structural, "structural", false, "anti-slip foil for stairs and paddling areas")
	return cmd
}

func newMaterialsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <inventory.json>",
		Short: "Merge materials from another inventory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, path, err := a.inventory()
			if err != nil {
				return err
			}
			before := len(inv.Materials)
			merged, err := project.ImportInventory(args[0], inv)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}
			if err := project.SaveInventory(path, merged); err != nil {
				return fmt.Errorf("failed to save inventory: %w", err)
			}
			successf(a.out, "Imported %d materials\n", len(merged.Materials)-before)
			return nil
		},
	}
}

func newMaterialsExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <inventory.json>",
		Short: "Write the inventory to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := a.inventory()
			if err != nil {
				return err
			}
			if err := project.ExportInventory(args[0], inv); err != nil {
				return fmt.Errorf("failed to export inventory: %w", err)
			}
			successf(a.out, "Exported %d materials to %s\n", len(inv.Materials), args[0])
			return nil
		},
	}
}
