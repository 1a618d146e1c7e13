package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/sst/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sst",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "sst version %s\n", version.Get().Full())
		},
	}
}
