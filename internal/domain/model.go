package domain

import "time"

// Category identifies which corpus directory a document belongs to.
type Category string

const (
	CategoryRule     Category = "rule"
	CategoryWorkflow Category = "workflow"
)

// Categories lists every document category in corpus order.
var Categories = []Category{CategoryRule, CategoryWorkflow}

// Severity tags a Finding as blocking (error) or advisory (warning).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check names the validation step that produced a Finding.
type Check string

const (
	CheckFrontmatter     Check = "frontmatter"
	CheckStructure       Check = "structure"
	CheckCrossReferences Check = "cross_references"
	CheckActionability   Check = "actionability"
	CheckCorpus          Check = "corpus"
)

// Document is a single governance document handed to the analyzer.
type Document struct {
	ID           string    `json:"id"`
	Category     Category  `json:"category"`
	Text         string    `json:"-"`
	LastModified time.Time `json:"last_modified"`
}

// Finding is a single compliance issue raised against a document or the corpus.
// Corpus-level findings carry an empty DocumentID.
type Finding struct {
	Severity   Severity `json:"severity"`
	DocumentID string   `json:"document_id,omitempty"`
	Check      Check    `json:"check"`
	Message    string   `json:"message"`
}

// QualityBreakdown holds the three health sub-scores, each 0..100.
type QualityBreakdown struct {
	Frontmatter     int `json:"frontmatter"`
	CrossReferences int `json:"cross_references"`
	Actionability   int `json:"actionability"`
}

// HealthRecord is the per-document health result.
type HealthRecord struct {
	DocumentID           string           `json:"document_id"`
	Category             Category         `json:"category"`
	HealthScore          int              `json:"health_score"`
	WordCount            int              `json:"word_count"`
	DaysSinceModified    int              `json:"days_since_modified"`
	FrontmatterCompliant bool             `json:"frontmatter_compliant"`
	CrossReferenced      bool             `json:"cross_referenced"`
	LastModified         time.Time        `json:"last_modified"`
	QualityBreakdown     QualityBreakdown `json:"quality_breakdown"`
}

// CorpusMetrics are the corpus-wide aggregates derived from health records.
type CorpusMetrics struct {
	TotalDocuments     int `json:"total_documents"`
	CompliantDocuments int `json:"compliant_documents"`
	ComplianceRate     int `json:"compliance_rate"`
	AverageWordCount   int `json:"average_word_count"`
	AverageAgeDays     int `json:"average_age_days"`
	MaintenanceNeeded  int `json:"maintenance_needed"`
}

// StructuralPresence reports which mandated corpus entries exist.
type StructuralPresence struct {
	RulesDirPresent       bool `json:"rules_dir_present"`
	WorkflowsDirPresent   bool `json:"workflows_dir_present"`
	IndexPresent          bool `json:"index_present"`
	MetaGovernancePresent bool `json:"meta_governance_present"`
}

// CompletePresence is a StructuralPresence with nothing missing.
func CompletePresence() StructuralPresence {
	return StructuralPresence{
		RulesDirPresent:       true,
		WorkflowsDirPresent:   true,
		IndexPresent:          true,
		MetaGovernancePresent: true,
	}
}

// CorpusResult is the output of the corpus aggregator.
type CorpusResult struct {
	Findings        []Finding     `json:"findings"`
	ErrorCount      int           `json:"error_count"`
	WarningCount    int           `json:"warning_count"`
	ValidationScore int           `json:"validation_score"`
	OverallHealth   int           `json:"overall_health"`
	Metrics         CorpusMetrics `json:"metrics"`
	Recommendations []string      `json:"recommendations"`
	OverallScore    int           `json:"overall_score"`
}

// Mode selects which entry point drove a run and how pass/fail is decided.
type Mode string

const (
	ModeValidate Mode = "validate"
	ModeHealth   Mode = "health"
	ModeAudit    Mode = "audit"
)

// Report is everything a report sink receives for one run.
type Report struct {
	RunID           string             `json:"run_id"`
	Mode            Mode               `json:"mode"`
	Timestamp       time.Time          `json:"timestamp"`
	DurationSeconds float64            `json:"duration_seconds"`
	CommitHash      string             `json:"commit_hash,omitempty"`
	MinScore        int                `json:"min_score"`
	Passed          bool               `json:"passed"`
	RulesDir        string             `json:"rules_dir"`
	WorkflowsDir    string             `json:"workflows_dir"`
	ReportsDir      string             `json:"reports_dir"`
	Presence        StructuralPresence `json:"presence"`
	Records         []HealthRecord     `json:"records"`
	Result          CorpusResult       `json:"result"`
}

// Status returns the overall status tier of the report.
func (r Report) Status() Status { return StatusFor(r.Result.OverallScore) }

// Grade returns the letter grade of the overall score.
func (r Report) Grade() string { return GradeFor(r.Result.OverallScore) }

// RecordsIn returns the health records of a single category, in report order.
func (r Report) RecordsIn(c Category) []HealthRecord {
	var out []HealthRecord
	for _, rec := range r.Records {
		if rec.Category == c {
			out = append(out, rec)
		}
	}
	return out
}

// Status is the coarse verdict shown in reports.
type Status string

const (
	StatusExcellent      Status = "excellent"
	StatusGood           Status = "good"
	StatusNeedsAttention Status = "needs_attention"
)

func StatusFor(score int) Status {
	switch {
	case score >= 90:
		return StatusExcellent
	case score >= 70:
		return StatusGood
	default:
		return StatusNeedsAttention
	}
}

func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

func BadgeColor(score int) string {
	switch {
	case score >= 90:
		return "brightgreen"
	case score >= 80:
		return "green"
	case score >= 70:
		return "yellow"
	case score >= 60:
		return "orange"
	case score >= 50:
		return "red"
	default:
		return "critical"
	}
}

// CountSeverities returns the number of error and warning findings.
func CountSeverities(findings []Finding) (errors, warnings int) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
