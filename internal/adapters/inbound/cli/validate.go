package cli

import (
	"github.com/spf13/cobra"

	"github.com/openkraft/govaudit/internal/domain"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check every rule and workflow for compliance",
		Long:  "Validate frontmatter, structure, cross references and actionable content. Exits 1 when any error is found.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, opts, args, domain.ModeValidate, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}
