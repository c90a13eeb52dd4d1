package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/FoilCut/internal/model"
	"github.com/piwi3910/FoilCut/internal/project"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file and backups",
	}
	cmd.AddCommand(
		newConfigInitCmd(a),
		newConfigShowCmd(a),
		newConfigBackupCmd(a),
		newConfigRestoreCmd(a),
	)
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with the default values",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{configOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				if _, err := project.LoadAppConfig(path); err != nil {
					return fmt.Errorf("%s exists but cannot be read: %w", path, err)
				}
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			successf(a.out, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			cfg.Settings = cfg.ResolvedSettings()
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = a.out.Write(data)
			return err
		},
	}
}

func newConfigBackupCmd(a *app) *cobra.Command {
	var jobsDir string
	cmd := &cobra.Command{
		Use:   "backup <backup.json>",
		Short: "Write the configuration, inventory and job files to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := a.inventory()
			if err != nil {
				return err
			}
			var jobs []project.JobFile
			if jobsDir != "" {
				if jobs, err = project.ReadJobDir(jobsDir); err != nil {
					return err
				}
			}
			if err := project.ExportAllData(args[0], a.cfg, inv, jobs...); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			successf(a.out, "Backed up %d materials and %d jobs to %s\n", len(inv.Materials), len(jobs), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&jobsDir, "jobs", "", "directory of job files to include")
	return cmd
}

func newConfigRestoreCmd(a *app) *cobra.Command {
	var jobsDir string
	cmd := &cobra.Command{
		Use:         "restore <backup.json>",
		Short:       "Replace the configuration and inventory from a backup",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{configOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := project.ImportAllData(args[0])
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}
			if err := project.SaveAppConfig(a.configPath(), data.Config); err != nil {
				return fmt.Errorf("failed to restore config: %w", err)
			}
			_, invPath, err := a.inventory()
			if err != nil {
				return err
			}
			if err := project.SaveInventory(invPath, data.Inventory); err != nil {
				return fmt.Errorf("failed to restore inventory: %w", err)
			}
			successf(a.out, "Restored %d materials from %s\n", len(data.Inventory.Materials), args[0])

			if jobsDir == "" || len(data.Jobs) == 0 {
				return nil
			}
			paths, err := data.RestoreJobs(jobsDir)
			if err != nil {
				return fmt.Errorf("failed to restore jobs: %w", err)
			}
			successf(a.out, "Restored %d jobs to %s\n", len(paths), jobsDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&jobsDir, "jobs", "", "directory to write the backed up job files to")
	return cmd
}
