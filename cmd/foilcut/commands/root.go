// Package commands implements the foilcut command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/piwi3910/FoilCut/internal/model"
	"github.com/piwi3910/FoilCut/internal/project"
	"github.com/piwi3910/FoilCut/internal/telemetry"
)

// Version is set at build time.
var Version = "dev"

// configOptional marks commands that run before a config file exists.
const configOptional = "config-optional"

// app is the state shared by all subcommands of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	trace    bool
	cfg      model.AppConfig
	logger   *slog.Logger
	out      io.Writer
	errOut   io.Writer
	shutdown func(context.Context) error
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree writing reports to out and logs to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:   "foilcut",
		Short: "Pool liner roll cutting optimizer",
		Long: `FoilCut plans how the liner of a swimming pool is cut from stock rolls.

It picks roll widths per surface, groups the perimeter walls into continuous
strips, packs everything onto rolls and reports the chargeable foil area.`,
		Version:            Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ~/.foilcut/config.yaml)")
	pf.String("inventory", "", "material inventory file (default ~/.foilcut/inventory.json)")
	pf.BoolP("verbose", "v", false, "log optimizer decisions")
	pf.Bool("json-logs", false, "write logs as JSON")
	pf.Bool("no-color", false, "disable ANSI color output")
	pf.String("otel-endpoint", "", "OTLP HTTP endpoint for traces")
	pf.BoolVar(&a.trace, "trace", false, "record OpenTelemetry traces")

	for key, flag := range map[string]string{
		"inventory_path": "inventory",
		"verbose":        "verbose",
		"json_logs":      "json-logs",
		"no_color":       "no-color",
		"otel_endpoint":  "otel-endpoint",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newOptimizeCmd(a),
		newCompareCmd(a),
		newExportCmd(a),
		newMaterialsCmd(a),
		newImportCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return project.DefaultConfigPath()
}

// settingsKeys are the settings that FOILCUT_SETTINGS_* variables can override.
var settingsKeys = []string{
	"roll_length", "narrow_width", "wide_width", "min_overlap", "max_overlap",
	"wall_seam_overlap", "reuse_threshold", "fold_allowance", "depth_comfort_margin",
}

// loadConfig layers defaults, the config file and FOILCUT_* variables into a.cfg.
func (a *app) loadConfig(optional bool) error {
	defaults := model.DefaultAppConfig()
	a.v.SetDefault("objective", defaults.DefaultObjective)
	a.v.SetDefault("main_material", defaults.DefaultMainMaterial)
	a.v.SetDefault("structural_material", defaults.DefaultStructuralMaterial)
	a.v.SetDefault("skip_telemetry", defaults.SkipTelemetry)

	a.v.SetConfigFile(a.configPath())
	a.v.SetConfigType("yaml")
	a.v.SetEnvPrefix("FOILCUT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()
	// Nested keys are only seen by Unmarshal once bound
	for _, key := range settingsKeys {
		if err := a.v.BindEnv("settings." + key); err != nil {
			return fmt.Errorf("failed to bind settings.%s: %w", key, err)
		}
	}

	if err := a.v.ReadInConfig(); err != nil {
		// Only an explicitly requested file has to exist
		if !errors.Is(err, fs.ErrNotExist) || (a.cfgFile != "" && !optional) {
			return fmt.Errorf("failed to read config %s: %w", a.configPath(), err)
		}
	}

	// Decoding overlays the present keys onto the defaults
	cfg := defaults
	if err := a.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	if a.trace {
		cfg.SkipTelemetry = false
	}
	a.cfg = cfg
	return nil
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.loadConfig(cmd.Annotations[configOptional] == "true"); err != nil {
		return err
	}

	if a.cfg.NoColor {
		color.NoColor = true
	}

	level := slog.LevelWarn
	if a.cfg.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if a.cfg.JSONLogs {
		a.logger = slog.New(slog.NewJSONHandler(a.errOut, opts))
	} else {
		a.logger = slog.New(slog.NewTextHandler(a.errOut, opts))
	}

	if !a.cfg.SkipTelemetry {
		shutdown, err := telemetry.Init(cmd.Context(), telemetry.Options{
			Version:  Version,
			Endpoint: a.cfg.OtelEndpoint,
			Writer:   a.errOut,
		})
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.shutdown == nil {
		return nil
	}
	return a.shutdown(cmd.Context())
}

func (a *app) settings() (model.Settings, error) {
	s := a.cfg.ResolvedSettings()
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func (a *app) inventory() (model.Inventory, string, error) {
	inv, path, err := project.LoadOrCreateInventory(a.cfg.InventoryPath)
	if err != nil {
		return inv, path, fmt.Errorf("failed to load inventory: %w", err)
	}
	return inv, path, nil
}

func (a *app) loadJob(path string) (model.Job, error) {
	inv, _, err := a.inventory()
	if err != nil {
		return model.Job{}, err
	}
	return project.LoadJob(path, &inv, a.cfg)
}
