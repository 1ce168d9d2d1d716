package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Cantilever/internal/calc/premium/batch"
	"Cantilever/internal/calc/premium/importer"
)

func newBatchCmd() *cobra.Command {
	var (
		output  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <sheet.xlsx>",
		Short: "Size every parameter row of an xlsx sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			w := cmd.OutOrStdout()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			inputs, rowErrs, err := importer.ParseSheet(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, re := range rowErrs {
				printWarning(w, "row %d %s: %s", re.Row, re.Column, re.Err)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("%s: no usable rows", args[0])
			}

			logger.Debug("running batch", "items", len(inputs), "workers", workers)
			rep, err := batch.Run(ctx, batch.Input{Items: inputs, Workers: workers})
			if err != nil {
				return err
			}
			logger.Info("batch finished", "run_id", rep.RunID, "count", rep.Count, "failed", rep.Failed)

			out, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := importer.WriteResults(out, rep); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}

			printSuccess(w, "Sized %d of %d designs", rep.Count-rep.Failed, rep.Count)
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "results.xlsx", "output workbook")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (default: GOMAXPROCS)")
	return cmd
}
