package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"Cantilever/internal/calc/premium/sweep"
)

func newSweepCmd() *cobra.Command {
	var (
		configPath string
		in         sweep.Input
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Vary one parameter and size the cantilever at each value",
		Example: `  cantilever sweep --field max_stress --from 1e8 --to 5.25e8 --steps 8
  cantilever sweep --field arm_count --from 6 --to 16 --steps 11 -c hub.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			base, err := loadInput(ctx, configPath)
			if err != nil {
				return err
			}
			in.Base = base

			res, err := sweep.Run(ctx, in)
			if err != nil {
				return err
			}
			logger.Debug("sweep finished", "run_id", res.RunID, "points", len(res.Points), "failed", res.Failed)

			t := table.New().Headers(in.Field, "base mm", "height mm", "stress Pa", "ok", "notes")
			for _, p := range res.Points {
				value := fmt.Sprintf("%.6g", p.Value)
				if p.Result == nil {
					t.Row(value, "-", "-", "-", iconError, p.Error)
					continue
				}
				ok := iconSuccess
				if !p.Result.OK() {
					ok = iconError
				}
				t.Row(value,
					fmt.Sprintf("%.3f", p.Result.BaseMM),
					fmt.Sprintf("%.3f", p.Result.HeightMM),
					fmt.Sprintf("%.6g", p.Result.StressPa),
					ok, p.Result.Notes)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML or YAML parameter file (default: reference configuration)")
	cmd.Flags().StringVar(&in.Field, "field", "", "field to vary: "+strings.Join(sweep.Fields(), ", "))
	cmd.Flags().Float64Var(&in.From, "from", 0, "first value")
	cmd.Flags().Float64Var(&in.To, "to", 0, "last value")
	cmd.Flags().IntVar(&in.Steps, "steps", 10, "number of values")
	cmd.Flags().IntVarP(&in.Workers, "workers", "w", 0, "parallel workers (default: GOMAXPROCS)")
	cmd.MarkFlagRequired("field")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
