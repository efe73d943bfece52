package main

import (
	"errors"
	"fmt"

	"github.com/amp-labs/easyapply/application"
	"github.com/amp-labs/easyapply/statemachine/validator"
	"github.com/spf13/cobra"
)

var errInvalidTable = errors.New("transition table has errors")

func newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the transition table for structural problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := application.Blueprint()

			result := validator.Validate(table)
			if strict {
				result = validator.ValidateStrict(table)
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), result.String()); err != nil { //nolint:noinlineerr
				return err
			}

			if result.HasErrors() {
				return errInvalidTable
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")

	return cmd
}
