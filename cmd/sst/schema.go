package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/sst/internal/infrastructure/policyfile"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of policy files",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			schema, err := policyfile.GenerateSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, string(schema))
			return err
		},
	}
}
