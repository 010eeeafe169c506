package domain

import (
	"context"
	"time"
)

// SourceDocument is a raw document as enumerated from the corpus.
type SourceDocument struct {
	ID   string
	Text string
}

// DocumentSource enumerates the documents of one category under a corpus root.
// A missing category directory yields no documents and no error.
type DocumentSource interface {
	Documents(ctx context.Context, root string, dir string) ([]SourceDocument, error)
}

// MetadataProvider supplies the last-modified time of a document.
type MetadataProvider interface {
	LastModified(ctx context.Context, root, documentID string) (time.Time, error)
}

// StructureChecker reports which mandated corpus entries exist.
type StructureChecker interface {
	Check(root string, cfg ProjectConfig) (StructuralPresence, error)
}

// ReportSink receives the finished report of a run.
type ReportSink interface {
	Emit(ctx context.Context, report *Report) error
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(root string) (ProjectConfig, error)
}

// AuditHistory persists one entry per audit run.
type AuditHistory interface {
	Save(root string, entry AuditEntry) error
	Load(root string) ([]AuditEntry, error)
}

// AuditEntry is a single line of run history.
type AuditEntry struct {
	RunID           string `json:"run_id"`
	Timestamp       string `json:"timestamp"`
	CommitHash      string `json:"commit_hash,omitempty"`
	Mode            Mode   `json:"mode"`
	Overall         int    `json:"overall"`
	ValidationScore int    `json:"validation_score"`
	OverallHealth   int    `json:"overall_health"`
	Errors          int    `json:"errors"`
	Warnings        int    `json:"warnings"`
	Passed          bool   `json:"passed"`
}

// EntryFromReport summarises a report as a history entry.
func EntryFromReport(r *Report) AuditEntry {
	return AuditEntry{
		RunID:           r.RunID,
		Timestamp:       r.Timestamp.UTC().Format(time.RFC3339),
		CommitHash:      r.CommitHash,
		Mode:            r.Mode,
		Overall:         r.Result.OverallScore,
		ValidationScore: r.Result.ValidationScore,
		OverallHealth:   r.Result.OverallHealth,
		Errors:          r.Result.ErrorCount,
		Warnings:        r.Result.WarningCount,
		Passed:          r.Passed,
	}
}
