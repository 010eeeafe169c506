package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/govaudit/internal/adapters/outbound/report"
	"github.com/openkraft/govaudit/internal/adapters/outbound/tui"
	"github.com/openkraft/govaudit/internal/application"
	"github.com/openkraft/govaudit/internal/domain"
)

// runFlags are the output flags shared by validate, health and audit.
type runFlags struct {
	jsonOutput bool
	noReports  bool
	badge      bool
	minScore   int
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&f.noReports, "no-reports", false, "Do not write report files")
}

func corpusPath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absPath, nil
}

// runMode drives one run of the audit service and renders its report. The
// returned error is non-nil when the run failed or did not pass.
func runMode(cmd *cobra.Command, opts *globalOptions, args []string, mode domain.Mode, flags *runFlags) error {
	absPath, err := corpusPath(args)
	if err != nil {
		return err
	}

	svc := newAuditService(newLogger(cmd.ErrOrStderr(), opts.verbose))

	var runOpts []application.RunOption
	if cmd.Flags().Changed("min") {
		runOpts = append(runOpts, application.WithMinScore(flags.minScore))
	}
	if flags.noReports {
		runOpts = append(runOpts, application.WithoutReports())
	}

	rep, runErr := svc.Run(cmd.Context(), absPath, mode, runOpts...)
	if rep == nil {
		return fmt.Errorf("%s failed: %w", mode, runErr)
	}

	out := cmd.OutOrStdout()
	switch {
	case flags.jsonOutput:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	case flags.badge:
		color := domain.BadgeColor(rep.Result.OverallScore)
		fmt.Fprintf(out, "https://img.shields.io/badge/governance-%d%%2F100-%s\n", rep.Result.OverallScore, color)
	default:
		fmt.Fprint(out, tui.RenderReport(rep))
		if !flags.noReports && runErr == nil {
			for _, name := range report.FilesFor(mode) {
				fmt.Fprintf(out, "  report: %s\n", filepath.Join(rep.ReportsDir, name))
			}
		}
	}

	if runErr != nil {
		return runErr
	}
	return verdictError(rep)
}

func verdictError(r *domain.Report) error {
	if r.Passed {
		return nil
	}
	switch r.Mode {
	case domain.ModeValidate:
		return fmt.Errorf("validation failed: %d errors, %d warnings", r.Result.ErrorCount, r.Result.WarningCount)
	case domain.ModeAudit:
		if r.Result.ErrorCount > 0 {
			return fmt.Errorf("audit failed: %d errors, overall score %d", r.Result.ErrorCount, r.Result.OverallScore)
		}
		return fmt.Errorf("audit failed: overall score %d is below minimum %d", r.Result.OverallScore, r.MinScore)
	default:
		return errors.New("run did not pass")
	}
}
