package cli

import (
	"github.com/spf13/cobra"

	"github.com/openkraft/govaudit/internal/domain"
)

func newHealthCmd(opts *globalOptions) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "health [path]",
		Short: "Score document health and write metrics",
		Long:  "Compute per-document health, corpus metrics and recommendations. Always exits 0 unless the run itself fails.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, opts, args, domain.ModeHealth, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}
