package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/openkraft/govaudit/internal/domain"
)

// Analyze validates a single document and scores its health.
//
// Findings are returned in check order: frontmatter, structure, cross
// references, actionability. The health record is computed from the same text
// but independently of the findings. now is the reference time for the
// document's age. Analyze is pure: identical inputs give identical outputs.
func Analyze(doc domain.Document, now time.Time) ([]domain.Finding, domain.HealthRecord) {
	actionable := CountActionable(doc.Text)

	var findings []domain.Finding
	findings = append(findings, checkFrontmatter(doc)...)
	findings = append(findings, checkStructure(doc)...)
	findings = append(findings, checkCrossReferences(doc)...)
	findings = append(findings, checkActionability(doc, actionable)...)

	return findings, scoreHealth(doc, actionable, now)
}

// checkFrontmatter: block present (error), required fields (error each),
// version format (warning).
func checkFrontmatter(doc domain.Document) []domain.Finding {
	fields, ok := ParseFrontmatter(doc.Text)
	if !ok {
		return []domain.Finding{newFinding(doc, domain.SeverityError, domain.CheckFrontmatter,
			"Missing or invalid frontmatter")}
	}

	var findings []domain.Finding
	for _, key := range requiredFrontmatterFields {
		if fields[key] == "" {
			findings = append(findings, newFinding(doc, domain.SeverityError, domain.CheckFrontmatter,
				fmt.Sprintf("Missing required frontmatter field: %s", key)))
		}
	}

	if v := fields["version"]; v != "" && !versionPattern.MatchString(v) {
		findings = append(findings, newFinding(doc, domain.SeverityWarning, domain.CheckFrontmatter,
			fmt.Sprintf("Version %q should follow the x.y format", v)))
	}
	return findings
}

// checkStructure: at least two headings and fifty words.
func checkStructure(doc domain.Document) []domain.Finding {
	var findings []domain.Finding
	if CountHeadings(doc.Text) < minHeadings {
		findings = append(findings, newFinding(doc, domain.SeverityWarning, domain.CheckStructure,
			"Consider adding more structure with headings"))
	}
	if words := WordCount(doc.Text); words < minWords {
		findings = append(findings, newFinding(doc, domain.SeverityWarning, domain.CheckStructure,
			fmt.Sprintf("Consider expanding content (current: %d words)", words)))
	}
	return findings
}

// checkCrossReferences: any of the three section markers, and at least one link.
func checkCrossReferences(doc domain.Document) []domain.Finding {
	var findings []domain.Finding
	if !containsAny(doc.Text, markerDependsOn, markerExtends, markerSeeAlso) {
		findings = append(findings, newFinding(doc, domain.SeverityWarning, domain.CheckCrossReferences,
			"Missing cross-reference sections (Depends On, Extends or See Also)"))
	}
	if !linkPattern.MatchString(doc.Text) {
		findings = append(findings, newFinding(doc, domain.SeverityWarning, domain.CheckCrossReferences,
			"No external references found"))
	}
	return findings
}

func checkActionability(doc domain.Document, actionable int) []domain.Finding {
	if actionable >= minActionable {
		return nil
	}
	return []domain.Finding{newFinding(doc, domain.SeverityWarning, domain.CheckActionability,
		fmt.Sprintf("Consider adding more actionable content (found: %d actionable statements)", actionable))}
}

func newFinding(doc domain.Document, sev domain.Severity, check domain.Check, msg string) domain.Finding {
	return domain.Finding{Severity: sev, DocumentID: doc.ID, Check: check, Message: msg}
}

func scoreHealth(doc domain.Document, actionable int, now time.Time) domain.HealthRecord {
	breakdown := domain.QualityBreakdown{
		Frontmatter:     FrontmatterScore(doc.Text),
		CrossReferences: CrossReferenceScore(doc.Text),
		Actionability:   ActionabilityScore(actionable),
	}

	return domain.HealthRecord{
		DocumentID:           doc.ID,
		Category:             doc.Category,
		HealthScore:          HealthScore(breakdown),
		WordCount:            WordCount(doc.Text),
		DaysSinceModified:    DaysSince(doc.LastModified, now),
		FrontmatterCompliant: breakdown.Frontmatter > 0,
		CrossReferenced:      breakdown.CrossReferences > 0,
		LastModified:         doc.LastModified,
		QualityBreakdown:     breakdown,
	}
}

// FrontmatterScore is 100 when the delimiter appears anywhere in text. It does
// not check that the block is well formed.
func FrontmatterScore(text string) int {
	if strings.Contains(text, frontmatterDelimiter) {
		return fullMarks
	}
	return noMarks
}

// CrossReferenceScore is 100 when text has a Depends On or Extends section.
// A See Also section alone scores 0 even though it satisfies the cross
// reference check.
func CrossReferenceScore(text string) int {
	if containsAny(text, markerDependsOn, markerExtends) {
		return fullMarks
	}
	return noMarks
}

// ActionabilityScore awards ten points per actionable statement, capped at 100.
func ActionabilityScore(actionable int) int {
	return max(noMarks, min(maxActionabilityPoints, actionable*pointsPerActionable))
}

// HealthScore is the rounded mean of the three sub-scores.
func HealthScore(b domain.QualityBreakdown) int {
	return round(float64(b.Frontmatter+b.CrossReferences+b.Actionability) / 3)
}

// DaysSince returns the whole days elapsed from t to now, rounded down.
func DaysSince(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / hoursPerDay))
}

// CountActionable sums the matches of every actionable pattern in text.
func CountActionable(text string) int {
	total := 0
	for _, p := range actionablePatterns {
		total += len(p.FindAllStringIndex(text, -1))
	}
	return total
}

// CountHeadings counts level 1-3 Markdown headings: one to three '#' at the
// start of a line, whitespace, then a non-blank title.
func CountHeadings(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		level := 0
		for level < len(line) && line[level] == '#' {
			level++
		}
		if level < 1 || level > 3 || level == len(line) {
			continue
		}
		if line[level] != ' ' && line[level] != '\t' {
			continue
		}
		if strings.TrimSpace(line[level:]) != "" {
			count++
		}
	}
	return count
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func containsAny(text string, markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
