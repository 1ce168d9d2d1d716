package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"Cantilever/internal/calc/cantilever"
)

func newSolveCmd() *cobra.Command {
	var (
		configPath string
		strict     bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Size one cantilever",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			in, err := loadInput(ctx, configPath)
			if err != nil {
				return err
			}
			if strict {
				in.StrictJointFeasibility = true
			}

			res, err := cantilever.Calculate(in)
			if err != nil {
				return err
			}
			logger.Debug("solved",
				"iterations", res.SolverIterations,
				"stress_corrected", res.StressCorrected,
				"buckling_corrected", res.BucklingCorrected)
			if !res.OK() {
				logger.Warn("final geometry violates a limit")
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML or YAML parameter file (default: reference configuration)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail unless every limit holds at the final geometry")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func printResult(w io.Writer, res cantilever.Result) {
	printTitle(w, res.Summary())
	printKeyValue(w, "Base", fmt.Sprintf("%.3f mm", res.BaseMM))
	printKeyValue(w, "Height", fmt.Sprintf("%.3f mm", res.HeightMM))
	printKeyValue(w, "Stress", fmt.Sprintf("%.6g Pa", res.StressPa))
	printKeyValue(w, "Buckling length", fmt.Sprintf("%.3f mm", res.BucklingLengthMM))
	printKeyValue(w, "Deflection", fmt.Sprintf("%.6f mm", res.DeflectionMM))
	printKeyValue(w, "Iterations", fmt.Sprintf("%d", res.SolverIterations))
	if res.Notes != "" {
		printKeyValue(w, "Notes", res.Notes)
	}
	fmt.Fprintln(w)
	printCheck(w, res.OKStress, "stress %.6g Pa within %.6g Pa", res.StressPa, res.MaxStressPa)
	printCheck(w, res.OKBuckling, "height %.3f mm within buckling length %.3f mm", res.HeightMM, res.BucklingLengthMM)
	printCheck(w, res.OKHeight, "height %.3f mm within %.3f mm", res.HeightMM, res.MaxHeightMM)
	printCheck(w, res.OKDeflection, "deflection %.6f mm within %.6f mm", res.DeflectionMM, res.AllowableDeflectionMM)
}
