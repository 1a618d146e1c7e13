package main

import (
	"github.com/spf13/cobra"

	"github.com/reglet-dev/sst/internal/application/dto"
	"github.com/reglet-dev/sst/internal/application/services"
)

func newABICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "abi",
		Short: "Show what the running kernel's Landlock can enforce",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			caps, err := services.NewNegotiator(a.kernel, a.logger).Negotiate(a.cfg.RestrictFlags())
			if err != nil {
				return err
			}
			return a.writeReport(dto.NewCapabilitiesReport(caps, a.kernel.Release()))
		},
	}
}
