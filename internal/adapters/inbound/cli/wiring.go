package cli

import (
	"io"
	"log/slog"

	"github.com/openkraft/govaudit/internal/adapters/outbound/config"
	"github.com/openkraft/govaudit/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/govaudit/internal/adapters/outbound/history"
	"github.com/openkraft/govaudit/internal/adapters/outbound/report"
	"github.com/openkraft/govaudit/internal/adapters/outbound/scanner"
	"github.com/openkraft/govaudit/internal/application"
	"github.com/openkraft/govaudit/internal/domain"
)

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newAuditService wires the standard set of outbound adapters.
func newAuditService(logger *slog.Logger) *application.AuditService {
	sc := scanner.New()
	gi := gitinfo.New()
	return application.NewAuditService(
		sc,
		gi,
		sc,
		config.New(),
		application.WithLogger(logger),
		application.WithHistory(history.New()),
		application.WithCommitResolver(gi),
		application.WithReportSinks(func(dir string) domain.ReportSink {
			return report.New(dir)
		}),
	)
}
