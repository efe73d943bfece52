package main

import (
	"log/slog"

	"github.com/amp-labs/easyapply/logger"
	"github.com/spf13/cobra"
)

const appName = "easyapply"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Fill in and submit a multi-step application form",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogging(cmd)
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "log guard evaluations and ticks")

	root.AddCommand(newRunCmd(), newGraphCmd(), newValidateCmd(), newVersionCmd())

	return root
}

// configureLogging points the global logger at the command's stderr, honoring --verbose.
// Extra handlers receive every record as well.
func configureLogging(cmd *cobra.Command, extra ...logger.Option) {
	opts := []logger.Option{logger.WithOutput(cmd.ErrOrStderr())}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts = append(opts, logger.WithMinLevel(slog.LevelDebug))
	}

	logger.ConfigureLogging(cmd.Context(), appName, append(opts, extra...)...)
}
