package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"Cantilever/internal/calc/cantilever"
)

// NewRootCmd builds the command tree. Logs go to the command's stderr.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "cantilever",
		Short:        "Size the rectangular section of a cantilever arm",
		Long:         `cantilever finds the thinnest base and matching height of a rectangular cantilever arm that meets a deflection limit, resists buckling and stays under a fatigue stress limit.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newSweepCmd())
	root.AddCommand(newReportCmd())
	return root
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	root.SetErr(os.Stderr)
	return root.ExecuteContext(ctx)
}

// loadInput reads a TOML parameter file, or returns the reference
// configuration when path is empty.
func loadInput(ctx context.Context, path string) (cantilever.Input, error) {
	logger := loggerFromContext(ctx)
	if path == "" {
		logger.Debug("using reference configuration")
		return cantilever.ReferenceInput(), nil
	}
	logger.Debug("loading configuration", "path", path)
	return cantilever.LoadFile(path)
}
