package cli

import (
	"os"

	"github.com/spf13/cobra"

	"Cantilever/internal/calc/cantilever"
	"Cantilever/internal/calc/report"
)

func newReportCmd() *cobra.Command {
	var (
		configPath string
		output     string
		meta       report.Meta
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF design report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			in, err := loadInput(ctx, configPath)
			if err != nil {
				return err
			}
			res, err := cantilever.Calculate(in)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := report.Write(f, meta, in, res); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("report written", "path", output)

			w := cmd.OutOrStdout()
			printSuccess(w, "%s", res.Summary())
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML or YAML parameter file (default: reference configuration)")
	cmd.Flags().StringVarP(&output, "output", "o", "report.pdf", "output PDF")
	cmd.Flags().StringVar(&meta.Project, "project", "", "project name")
	cmd.Flags().StringVar(&meta.Author, "author", "", "author")
	return cmd
}
