package report

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/openkraft/govaudit/internal/domain"
)

// Report file names written under reports_dir.
const (
	ValidationReport    = "governance-validation-report.md"
	HealthMetrics       = "rule-health-metrics.json"
	HealthReport        = "rule-health-report.md"
	ComprehensiveReport = "comprehensive-governance-report.md"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("reports").Funcs(template.FuncMap{
	"title":   domain.Title,
	"mark":    mark,
	"finding": findingLine,
	"iso":     func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"pct":     func(n int) string { return fmt.Sprintf("%d%%", n) },
	"upper":   func(s domain.Status) string { return strings.ToUpper(strings.ReplaceAll(string(s), "_", " ")) },
	"compliant": func(recs []domain.HealthRecord) int {
		n := 0
		for _, r := range recs {
			if r.FrontmatterCompliant {
				n++
			}
		}
		return n
	},
	"connected": func(recs []domain.HealthRecord) int {
		n := 0
		for _, r := range recs {
			if r.CrossReferenced {
				n++
			}
		}
		return n
	},
}).ParseFS(templateFS, "templates/*.md.tmpl"))

// FilesFor lists the report files a run of the given mode writes.
func FilesFor(mode domain.Mode) []string {
	switch mode {
	case domain.ModeValidate:
		return []string{ValidationReport}
	case domain.ModeHealth:
		return []string{HealthMetrics, HealthReport}
	case domain.ModeAudit:
		return []string{HealthMetrics, HealthReport, ComprehensiveReport}
	default:
		return nil
	}
}

// FileSink implements domain.ReportSink by writing Markdown and JSON report
// files into a single directory.
type FileSink struct {
	dir string
}

func New(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Dir returns the directory reports are written to.
func (s *FileSink) Dir() string { return s.dir }

func (s *FileSink) Emit(ctx context.Context, r *domain.Report) error {
	files := FilesFor(r.Mode)
	if files == nil {
		return fmt.Errorf("%w: %q", domain.ErrUnknownMode, r.Mode)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating reports dir: %w", err)
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := render(name, r)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

func render(name string, r *domain.Report) ([]byte, error) {
	if name == HealthMetrics {
		return metricsJSON(r)
	}

	view := newView(r)
	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, name+".tmpl", view); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// metrics is the layout of rule-health-metrics.json.
type metrics struct {
	RunID           string                `json:"run_id"`
	Timestamp       string                `json:"timestamp"`
	OverallHealth   int                   `json:"overall_health"`
	Documents       []domain.HealthRecord `json:"documents"`
	Metrics         domain.CorpusMetrics  `json:"metrics"`
	Recommendations []string              `json:"recommendations"`
}

func metricsJSON(r *domain.Report) ([]byte, error) {
	docs := r.Records
	if docs == nil {
		docs = []domain.HealthRecord{}
	}
	recs := r.Result.Recommendations
	if recs == nil {
		recs = []string{}
	}
	data, err := json.MarshalIndent(metrics{
		RunID:           r.RunID,
		Timestamp:       r.Timestamp.UTC().Format(time.RFC3339),
		OverallHealth:   r.Result.OverallHealth,
		Documents:       docs,
		Metrics:         r.Result.Metrics,
		Recommendations: recs,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// view is the data handed to the Markdown templates.
type view struct {
	*domain.Report
	Errors    []domain.Finding
	Warnings  []domain.Finding
	Rules     []domain.HealthRecord
	Workflows []domain.HealthRecord
}

func newView(r *domain.Report) view {
	v := view{
		Report:    r,
		Rules:     r.RecordsIn(domain.CategoryRule),
		Workflows: r.RecordsIn(domain.CategoryWorkflow),
	}
	for _, f := range r.Result.Findings {
		if f.Severity == domain.SeverityError {
			v.Errors = append(v.Errors, f)
		} else {
			v.Warnings = append(v.Warnings, f)
		}
	}
	return v
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func findingLine(f domain.Finding) string {
	if f.DocumentID == "" {
		return f.Message
	}
	return f.DocumentID + ": " + f.Message
}
