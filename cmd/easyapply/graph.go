package main

import (
	"fmt"

	"github.com/amp-labs/easyapply/application"
	"github.com/amp-labs/easyapply/statemachine/visualizer"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	opts := visualizer.DefaultOptions()

	var (
		hideGuards bool
		hideJumps  bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the transition table as a Mermaid diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts = opts.WithShowGuards(!hideGuards).WithShowJumps(!hideJumps)

			out, err := visualizer.GenerateMermaidWithOptions(application.Blueprint(), opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err
		},
	}

	cmd.Flags().StringVar(&opts.Direction, "direction", opts.Direction, "diagram direction, TD or LR")
	cmd.Flags().StringSliceVar(&opts.HighlightPath, "highlight", nil, "states to highlight, in order")
	cmd.Flags().BoolVar(&hideGuards, "no-guards", false, "omit guard names from edges")
	cmd.Flags().BoolVar(&hideJumps, "no-jumps", false, "omit recovery and suspension jumps")

	return cmd
}
