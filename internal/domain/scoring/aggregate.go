package scoring

import (
	"fmt"

	"github.com/openkraft/govaudit/internal/domain"
)

// Aggregate folds the corpus-level structural findings into findings and
// derives the corpus result from the per-document health records.
//
// findings is not modified; the returned result carries the combined list.
func Aggregate(findings []domain.Finding, records []domain.HealthRecord, presence domain.StructuralPresence) domain.CorpusResult {
	all := make([]domain.Finding, 0, len(findings)+4)
	all = append(all, findings...)
	all = append(all, StructuralFindings(presence)...)

	errCount, warnCount := domain.CountSeverities(all)
	health := OverallHealth(records)
	metrics := ComputeMetrics(records)
	validation := ValidationScore(errCount, warnCount)

	return domain.CorpusResult{
		Findings:        all,
		ErrorCount:      errCount,
		WarningCount:    warnCount,
		ValidationScore: validation,
		OverallHealth:   health,
		Metrics:         metrics,
		Recommendations: Recommendations(health, metrics, records),
		OverallScore:    OverallScore(validation, health),
	}
}

// StructuralFindings reports missing corpus directories and mandated documents.
// A missing rules directory or mandated document is an error; a missing
// workflows directory is only a warning.
func StructuralFindings(p domain.StructuralPresence) []domain.Finding {
	var findings []domain.Finding
	add := func(sev domain.Severity, msg string) {
		findings = append(findings, domain.Finding{Severity: sev, Check: domain.CheckCorpus, Message: msg})
	}

	if !p.RulesDirPresent {
		add(domain.SeverityError, "Rules directory not found")
	}
	if !p.WorkflowsDirPresent {
		add(domain.SeverityWarning, "Workflows directory not found - skipping workflow validation")
	}
	if !p.IndexPresent {
		add(domain.SeverityError, "Rule index document is missing from the rules directory")
	}
	if !p.MetaGovernancePresent {
		add(domain.SeverityError, "Meta-governance document is missing from the rules directory")
	}
	return findings
}

// ValidationScore starts at 100 and loses 20 per error and 5 per warning,
// floored at 0.
func ValidationScore(errors, warnings int) int {
	if errors == 0 && warnings == 0 {
		return perfectValidation
	}
	return max(0, perfectValidation-errors*errorPenalty-warnings*warningPenalty)
}

// OverallHealth is the rounded mean health score, or 0 for an empty corpus.
func OverallHealth(records []domain.HealthRecord) int {
	if len(records) == 0 {
		return 0
	}
	total := 0
	for _, r := range records {
		total += r.HealthScore
	}
	return round(float64(total) / float64(len(records)))
}

// ComputeMetrics derives corpus metrics. An empty corpus yields all zeros.
func ComputeMetrics(records []domain.HealthRecord) domain.CorpusMetrics {
	m := domain.CorpusMetrics{TotalDocuments: len(records)}
	if m.TotalDocuments == 0 {
		return m
	}

	var words, age int
	for _, r := range records {
		if r.HealthScore >= compliantHealthScore {
			m.CompliantDocuments++
		}
		if r.DaysSinceModified > maintenanceAgeDays {
			m.MaintenanceNeeded++
		}
		words += r.WordCount
		age += r.DaysSinceModified
	}

	n := float64(m.TotalDocuments)
	m.ComplianceRate = round(float64(m.CompliantDocuments) / n * 100)
	m.AverageWordCount = round(float64(words) / n)
	m.AverageAgeDays = round(float64(age) / n)
	return m
}

// Recommendations returns improvement notes in a fixed order, each only when
// its condition holds.
func Recommendations(overallHealth int, m domain.CorpusMetrics, records []domain.HealthRecord) []string {
	recs := []string{}

	if overallHealth < lowHealthThreshold {
		recs = append(recs, "Overall document health is below optimal. Focus on frontmatter compliance and cross-references.")
	}
	if m.ComplianceRate < lowComplianceRate {
		recs = append(recs, "Less than 50% of documents meet quality standards. Prioritize template compliance.")
	}
	if m.MaintenanceNeeded > 0 {
		recs = append(recs, fmt.Sprintf("%d documents haven't been updated in 90+ days. Review for relevance.", m.MaintenanceNeeded))
	}

	stale := 0
	for _, r := range records {
		if r.DaysSinceModified > archivalAgeDays {
			stale++
		}
	}
	if stale > 0 {
		recs = append(recs, fmt.Sprintf("%d documents are over 6 months old. Consider archiving or updating.", stale))
	}

	return recs
}

// OverallScore blends the validation score (40%) with overall health (60%).
func OverallScore(validationScore, overallHealth int) int {
	return round(float64(validationScore)*validationWeight + float64(overallHealth)*healthWeight)
}
