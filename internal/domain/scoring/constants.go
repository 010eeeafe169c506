package scoring

import (
	"math"
	"regexp"
)

// Frontmatter.
const frontmatterDelimiter = "---"

var requiredFrontmatterFields = []string{"name", "description", "author", "version"}

var versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// Structure.
const (
	minHeadings = 2
	minWords    = 50
)

// Cross references. Only the first two count toward the health sub-score.
const (
	markerDependsOn = "### Depends On"
	markerExtends   = "### Extends"
	markerSeeAlso   = "### See Also"
)

var linkPattern = regexp.MustCompile(`\[[^\]]+\]\([^)]*\)`)

// Actionability.
const (
	minActionable          = 3
	pointsPerActionable    = 10
	maxActionabilityPoints = 100
)

var actionablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)must\s+(not\s+)?[a-z]`),
	regexp.MustCompile(`(?i)should\s+(not\s+)?[a-z]`),
	regexp.MustCompile(`(?i)never`),
	regexp.MustCompile(`(?i)always`),
	regexp.MustCompile(`(?i)required`),
	regexp.MustCompile(`(?i)prohibited`),
}

// Sub-score values.
const (
	fullMarks = 100
	noMarks   = 0
)

// Corpus thresholds.
const (
	compliantHealthScore = 80
	maintenanceAgeDays   = 90
	archivalAgeDays      = 180
	lowHealthThreshold   = 70
	lowComplianceRate    = 50
	errorPenalty         = 20
	warningPenalty       = 5
	perfectValidation    = 100
	validationWeight     = 0.4
	healthWeight         = 0.6
	hoursPerDay          = 24
)

// round rounds half up, so 66.5 becomes 67 and -0.5 becomes 0.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}
