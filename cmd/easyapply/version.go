package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"facette.io/natsort"
	"github.com/amp-labs/easyapply/build"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var (
		asJSON bool
		deps   bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := build.Current()
			if !deps {
				info.Dependencies = nil
			}

			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				return enc.Encode(info)
			}

			if _, err := fmt.Fprintf(out, "%s %s commit=%s built=%s %s\n", //nolint:noinlineerr
				appName, info.Version, orUnknown(info.GitCommit), orUnknown(info.BuildTime), info.GoVersion); err != nil {
				return err
			}

			paths := slices.Collect(maps.Keys(info.Dependencies))
			natsort.Sort(paths)

			for _, path := range paths {
				if _, err := fmt.Fprintf(out, "  %s %s\n", path, info.Dependencies[path]); err != nil { //nolint:noinlineerr
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().BoolVar(&deps, "deps", false, "include module dependencies")

	return cmd
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}
