package main

import (
	"github.com/spf13/cobra"

	"github.com/brokkr-rpc/brokkr/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print the client version",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := newOutputFormatter(cmd)
			if out.jsonMode {
				return out.Print(map[string]interface{}{"version": version.String()})
			}
			return out.Print(version.String())
		},
	}
}
