package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openkraft/govaudit/internal/domain"
	"github.com/openkraft/govaudit/internal/domain/scoring"
)

// CommitResolver returns the HEAD commit of the repository enclosing a path.
type CommitResolver interface {
	CommitHash(path string) (string, error)
}

// Refresher is implemented by metadata providers that cache per-corpus state.
// The service refreshes it at the start of every run.
type Refresher interface {
	Refresh(root string)
}

// ReportSinkFactory builds the sink for one run given its absolute reports dir.
type ReportSinkFactory func(reportsDir string) domain.ReportSink

// AuditService orchestrates a run:
// load config → enumerate documents → metadata → analyze (fan-out) → aggregate → emit.
type AuditService struct {
	source       domain.DocumentSource
	metadata     domain.MetadataProvider
	structure    domain.StructureChecker
	configLoader domain.ConfigLoader

	history domain.AuditHistory
	commits CommitResolver
	sinks   ReportSinkFactory
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

type Option func(s *AuditService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *AuditService) {
		s.logger = logger
	}
}

// WithHistory records one entry per audit-mode run.
func WithHistory(h domain.AuditHistory) Option {
	return func(s *AuditService) {
		s.history = h
	}
}

// WithCommitResolver stamps reports and history entries with the HEAD commit.
func WithCommitResolver(c CommitResolver) Option {
	return func(s *AuditService) {
		s.commits = c
	}
}

// WithReportSinks sets how report sinks are built for each run.
func WithReportSinks(f ReportSinkFactory) Option {
	return func(s *AuditService) {
		s.sinks = f
	}
}

// WithClock overrides the time source used for ages and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *AuditService) {
		s.now = now
	}
}

// WithRunIDs overrides the run ID generator.
func WithRunIDs(newID func() string) Option {
	return func(s *AuditService) {
		s.newID = newID
	}
}

func NewAuditService(
	source domain.DocumentSource,
	metadata domain.MetadataProvider,
	structure domain.StructureChecker,
	configLoader domain.ConfigLoader,
	opts ...Option,
) *AuditService {
	s := &AuditService{
		source:       source,
		metadata:     metadata,
		structure:    structure,
		configLoader: configLoader,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type runSettings struct {
	minScore    *int
	skipReports bool
	skipHistory bool
}

// RunOption adjusts a single run without touching the project config.
type RunOption func(*runSettings)

// WithMinScore overrides min_score for this run.
func WithMinScore(n int) RunOption {
	return func(r *runSettings) { r.minScore = &n }
}

// WithoutReports skips the report sinks.
func WithoutReports() RunOption {
	return func(r *runSettings) { r.skipReports = true }
}

// WithoutHistory skips recording the run in audit history.
func WithoutHistory() RunOption {
	return func(r *runSettings) { r.skipHistory = true }
}

// Run audits the corpus rooted at root. The report is returned even when a
// sink or history write fails, together with that error.
func (s *AuditService) Run(ctx context.Context, root string, mode domain.Mode, opts ...RunOption) (*domain.Report, error) {
	var settings runSettings
	for _, opt := range opts {
		opt(&settings)
	}

	switch mode {
	case domain.ModeValidate, domain.ModeHealth, domain.ModeAudit:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}

	start := s.now()

	// 0. Load config
	cfg, err := s.configLoader.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	threshold := cfg.Threshold()
	if settings.minScore != nil {
		threshold = *settings.minScore
		if threshold < 0 || threshold > 100 {
			return nil, fmt.Errorf("%w: min score %d must be between 0 and 100", domain.ErrInvalidConfig, threshold)
		}
	}
	s.logger.Debug("starting run", "root", root, "mode", mode, "min_score", threshold)

	// 1. Enumerate documents and look up their metadata
	docs, err := s.collect(ctx, root, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Analyze every document in parallel
	findings, records, err := s.analyze(ctx, docs, cfg.Workers, start)
	if err != nil {
		return nil, err
	}

	// 3. Check mandated corpus entries and aggregate
	presence, err := s.structure.Check(root, cfg)
	if err != nil {
		return nil, fmt.Errorf("checking corpus structure: %w", err)
	}
	result := scoring.Aggregate(findings, records, presence)

	report := &domain.Report{
		RunID:        s.newID(),
		Mode:         mode,
		Timestamp:    start,
		MinScore:     threshold,
		Passed:       passed(mode, result, threshold),
		RulesDir:     cfg.RulesDir,
		WorkflowsDir: cfg.WorkflowsDir,
		ReportsDir:   cfg.ReportsPath(root),
		Presence:     presence,
		Records:      records,
		Result:       result,
	}
	if s.commits != nil {
		if hash, err := s.commits.CommitHash(root); err == nil {
			report.CommitHash = hash
		} else {
			s.logger.Debug("no commit hash", "error", err)
		}
	}
	report.DurationSeconds = s.now().Sub(start).Seconds()

	s.logger.Info("run finished",
		"run_id", report.RunID,
		"mode", mode,
		"documents", len(records),
		"errors", result.ErrorCount,
		"warnings", result.WarningCount,
		"overall", result.OverallScore,
		"passed", report.Passed,
	)

	// 4. Emit reports and record history
	if s.sinks != nil && !settings.skipReports {
		if err := s.sinks(report.ReportsDir).Emit(ctx, report); err != nil {
			return report, fmt.Errorf("writing reports: %w", err)
		}
	}
	if mode == domain.ModeAudit && s.history != nil && !cfg.DisableHistory && !settings.skipHistory {
		if err := s.history.Save(root, domain.EntryFromReport(report)); err != nil {
			return report, fmt.Errorf("saving history: %w", err)
		}
	}

	return report, nil
}

// collect enumerates every category in corpus order. Within a category the
// source's order is kept.
func (s *AuditService) collect(ctx context.Context, root string, cfg domain.ProjectConfig) ([]domain.Document, error) {
	s.refresh(root)
	var docs []domain.Document
	for _, cat := range domain.Categories {
		src, err := s.source.Documents(ctx, root, cfg.DirFor(cat))
		if err != nil {
			return nil, fmt.Errorf("enumerating %s documents: %w", cat, err)
		}
		for _, sd := range src {
			modified, err := s.metadata.LastModified(ctx, root, sd.ID)
			if err != nil {
				return nil, fmt.Errorf("reading metadata for %s: %w", sd.ID, err)
			}
			docs = append(docs, domain.Document{
				ID:           sd.ID,
				Category:     cat,
				Text:         sd.Text,
				LastModified: modified,
			})
		}
	}
	return docs, nil
}

func (s *AuditService) refresh(root string) {
	if r, ok := s.metadata.(Refresher); ok {
		r.Refresh(root)
	}
}

type analysis struct {
	findings []domain.Finding
	record   domain.HealthRecord
}

// analyze fans Analyze out over docs and joins the results in document order.
// Findings are then stably sorted by document ID so per-document check order
// survives.
func (s *AuditService) analyze(ctx context.Context, docs []domain.Document, workers int, now time.Time) ([]domain.Finding, []domain.HealthRecord, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]analysis, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, rec := scoring.Analyze(doc, now)
			results[i] = analysis{findings: f, record: rec}
			s.logger.Debug("analyzed document", "document", doc.ID, "health", rec.HealthScore, "findings", len(f))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var findings []domain.Finding
	records := make([]domain.HealthRecord, 0, len(docs))
	for _, r := range results {
		findings = append(findings, r.findings...)
		records = append(records, r.record)
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].DocumentID < findings[j].DocumentID
	})
	return findings, records, nil
}

func passed(mode domain.Mode, r domain.CorpusResult, threshold int) bool {
	switch mode {
	case domain.ModeValidate:
		return r.ErrorCount == 0
	case domain.ModeHealth:
		return true
	default:
		return r.ErrorCount == 0 && r.OverallScore >= threshold
	}
}

// AnalyzeDocument runs the document analyzer on a single in-memory document.
func (s *AuditService) AnalyzeDocument(doc domain.Document, now time.Time) ([]domain.Finding, domain.HealthRecord) {
	return scoring.Analyze(doc, now)
}

// AnalyzeDocumentAt loads one document of the corpus by ID and analyzes it.
func (s *AuditService) AnalyzeDocumentAt(ctx context.Context, root, documentID string) ([]domain.Finding, domain.HealthRecord, error) {
	cfg, err := s.configLoader.Load(root)
	if err != nil {
		return nil, domain.HealthRecord{}, fmt.Errorf("loading config: %w", err)
	}

	s.refresh(root)
	for _, cat := range domain.Categories {
		src, err := s.source.Documents(ctx, root, cfg.DirFor(cat))
		if err != nil {
			return nil, domain.HealthRecord{}, fmt.Errorf("enumerating %s documents: %w", cat, err)
		}
		for _, sd := range src {
			if sd.ID != documentID {
				continue
			}
			modified, err := s.metadata.LastModified(ctx, root, sd.ID)
			if err != nil {
				return nil, domain.HealthRecord{}, fmt.Errorf("reading metadata for %s: %w", sd.ID, err)
			}
			findings, rec := s.AnalyzeDocument(domain.Document{
				ID:           sd.ID,
				Category:     cat,
				Text:         sd.Text,
				LastModified: modified,
			}, s.now())
			return findings, rec, nil
		}
	}
	return nil, domain.HealthRecord{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, documentID)
}

// History returns the recorded audit runs for root, oldest first.
func (s *AuditService) History(root string) ([]domain.AuditEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Load(root)
}
