package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/govaudit/internal/adapters/outbound/tui"
	"github.com/openkraft/govaudit/internal/domain"
)

func newAuditCmd(opts *globalOptions) *cobra.Command {
	var (
		flags       runFlags
		showHistory bool
	)

	cmd := &cobra.Command{
		Use:   "audit [path]",
		Short: "Validate and score the governance corpus",
		Long: "Run validation and health analysis together, write the comprehensive report and record the run " +
			"in history. Exits 1 when any error is found or the overall score is below the minimum.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showHistory {
				absPath, err := corpusPath(args)
				if err != nil {
					return err
				}
				entries, err := newAuditService(newLogger(cmd.ErrOrStderr(), opts.verbose)).History(absPath)
				if err != nil {
					return fmt.Errorf("loading history: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
				return nil
			}
			return runMode(cmd, opts, args, domain.ModeAudit, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.badge, "badge", false, "Output shields.io badge URL")
	cmd.Flags().IntVar(&flags.minScore, "min", domain.DefaultMinScore, "Minimum overall score to pass (overrides min_score)")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show audit history instead of running")

	return cmd
}
