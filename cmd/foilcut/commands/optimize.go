package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/piwi3910/FoilCut/internal/engine"
	"github.com/piwi3910/FoilCut/internal/model"
	"github.com/piwi3910/FoilCut/internal/telemetry"
)

const tracerName = "github.com/piwi3910/FoilCut/cmd/foilcut"

func newOptimizeCmd(a *app) *cobra.Command {
	var (
		objective string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "optimize <job.yaml>",
		Short: "Plan the cutting of one pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := a.loadJob(args[0])
			if err != nil {
				return err
			}
			if objective != "" {
				if job.Objective, err = model.ParseObjective(objective); err != nil {
					return err
				}
			}
			s, err := a.settings()
			if err != nil {
				return err
			}

			cfg, err := a.optimize(cmd.Context(), s, job)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}
			printReport(a.out, job, cfg, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&objective, "objective", "", "minWaste or minRolls (overrides the job file)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the configuration as JSON")
	return cmd
}

// optimize runs the optimizer inside a trace span.
func (a *app) optimize(ctx context.Context, s model.Settings, job model.Job) (model.MixConfiguration, error) {
	_, span := telemetry.Tracer(tracerName).Start(ctx, "optimize", trace.WithAttributes(
		attribute.String("job.name", job.Name),
		attribute.String("job.objective", string(job.Objective)),
		attribute.Float64("pool.length", job.Pool.Length),
		attribute.Float64("pool.width", job.Pool.Width),
	))
	defer span.End()

	cfg, err := engine.New(s, engine.WithLogger(a.logger)).Optimize(job)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return cfg, fmt.Errorf("%s: %w", job.Name, err)
	}
	span.SetAttributes(
		attribute.Int("rolls.narrow", cfg.NarrowRolls),
		attribute.Int("rolls.wide", cfg.WideRolls),
		attribute.Float64("waste_percent", cfg.WastePercent),
		attribute.Float64("chargeable_area", cfg.Pricing.TotalChargeable),
	)
	return cfg, nil
}
