package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "govaudit",
		Short: "Audit governance rules and workflows",
		Long: "govaudit validates a corpus of Markdown governance documents (rules and workflows), " +
			"scores their health and writes validation, health and audit reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log per-document progress to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAuditCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newHealthCmd(opts))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
