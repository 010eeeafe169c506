package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openkraft/govaudit/internal/domain"
)

// ── Palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	lime    = lipgloss.Color("#A3E635")
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A+": success,
		"A":  success,
		"B":  lime,
		"C":  warning,
		"D":  lipgloss.Color("#FB923C"), // orange
		"F":  danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

var modeSubtitles = map[domain.Mode]string{
	domain.ModeValidate: "Governance Validation",
	domain.ModeHealth:   "Rule Health",
	domain.ModeAudit:    "Governance Audit",
}

// RenderReport formats a finished run for terminal output.
func RenderReport(r *domain.Report) string {
	var b strings.Builder

	// ── Header ──
	headline := headlineScore(r)
	grade := domain.GradeFor(headline)
	title := headerStyle.Render("govaudit")
	subtitle := dimStyle.Render(modeSubtitles[r.Mode])
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(fmt.Sprintf("%d / 100", headline))
	gradeStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(grade)

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled + "  " + gradeStyled))
	b.WriteString("\n\n")

	// ── Scores ──
	renderScoreLine(&b, "Validation", r.Result.ValidationScore)
	if r.Mode != domain.ModeValidate {
		renderScoreLine(&b, "Health", r.Result.OverallHealth)
	}
	if r.Mode == domain.ModeAudit {
		renderScoreLine(&b, "Overall", r.Result.OverallScore)
	}

	// ── Documents ──
	if r.Mode != domain.ModeValidate {
		for _, cat := range domain.Categories {
			recs := r.RecordsIn(cat)
			if len(recs) == 0 {
				continue
			}
			b.WriteString("\n  " + titleStyle.Render(categoryHeading(cat, len(recs))) + "\n")
			for _, rec := range recs {
				renderRecord(&b, rec)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Findings ──
	findings := sortBySeverity(r.Result.Findings)
	if len(findings) > 0 {
		b.WriteString("  ")
		b.WriteString(titleStyle.Render("Findings"))
		b.WriteString("  ")
		if r.Result.ErrorCount > 0 {
			b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d errors", r.Result.ErrorCount)))
			b.WriteString("  ")
		}
		if r.Result.WarningCount > 0 {
			b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", r.Result.WarningCount)))
		}
		b.WriteString("\n\n")

		for _, f := range findings {
			renderFinding(&b, f)
		}
	} else {
		b.WriteString("  " + passStyle.Render("No findings.") + "\n")
	}

	// ── Recommendations ──
	if r.Mode != domain.ModeValidate && len(r.Result.Recommendations) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Recommendations") + "\n\n")
		for _, rec := range r.Result.Recommendations {
			fmt.Fprintf(&b, "    %s %s\n", warnStyle.Render("→"), dimStyle.Render(rec))
		}
	}

	b.WriteString("\n  " + verdict(r) + "\n\n")
	return b.String()
}

// headlineScore is the number the header box leads with for each mode.
func headlineScore(r *domain.Report) int {
	switch r.Mode {
	case domain.ModeValidate:
		return r.Result.ValidationScore
	case domain.ModeHealth:
		return r.Result.OverallHealth
	default:
		return r.Result.OverallScore
	}
}

func categoryHeading(cat domain.Category, n int) string {
	switch cat {
	case domain.CategoryWorkflow:
		return fmt.Sprintf("Workflows (%d)", n)
	default:
		return fmt.Sprintf("Rules (%d)", n)
	}
}

func renderScoreLine(b *strings.Builder, name string, score int) {
	scoreText := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(score)).Render(fmt.Sprintf("%d", score))
	fmt.Fprintf(b, "  %s %s  %s\n", catNameStyle.Render(padRight(name, 20)), coloredBar(score, 20), scoreText)
}

func renderRecord(b *strings.Builder, rec domain.HealthRecord) {
	var icon string
	switch {
	case rec.HealthScore >= 80:
		icon = passStyle.Render("●")
	case rec.HealthScore >= 40:
		icon = warnStyle.Render("●")
	default:
		icon = failStyle.Render("●")
	}

	name := padRight(domain.Title(rec.DocumentID), 30)
	score := dimStyle.Render(fmt.Sprintf("%3d", rec.HealthScore))
	detail := faintStyle.Render(fmt.Sprintf("%d words, %dd old", rec.WordCount, rec.DaysSinceModified))
	fmt.Fprintf(b, "    %s %s %s  %s\n", icon, name, score, detail)
}

func renderFinding(b *strings.Builder, f domain.Finding) {
	tag := severityTag(f.Severity)
	if f.DocumentID != "" {
		fmt.Fprintf(b, "    %s %s\n", tag, fileStyle.Render(f.DocumentID))
		fmt.Fprintf(b, "          %s\n", dimStyle.Render(f.Message))
	} else {
		fmt.Fprintf(b, "    %s %s\n", tag, dimStyle.Render(f.Message))
	}
}

func verdict(r *domain.Report) string {
	if r.Passed {
		return passStyle.Render("✓ PASS")
	}
	if r.Mode == domain.ModeAudit && r.Result.ErrorCount == 0 {
		return failStyle.Render(fmt.Sprintf("✗ FAIL  overall %d is below the minimum of %d", r.Result.OverallScore, r.MinScore))
	}
	return failStyle.Render(fmt.Sprintf("✗ FAIL  %d errors must be fixed", r.Result.ErrorCount))
}

func severityTag(severity domain.Severity) string {
	if severity == domain.SeverityError {
		return errorTagStyle.Render("error")
	}
	return warnTagStyle.Render("warn ")
}

// sortBySeverity returns a copy with errors first, keeping order within each severity.
func sortBySeverity(findings []domain.Finding) []domain.Finding {
	out := append([]domain.Finding(nil), findings...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity == domain.SeverityError && out[j].Severity != domain.SeverityError
	})
	return out
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats audit history for terminal output.
func RenderHistory(entries []domain.AuditEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No audit history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Audit History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		scoreStyled := lipgloss.NewStyle().
			Foreground(scoreColor(e.Overall)).
			Render(fmt.Sprintf("%d/100", e.Overall))

		status := passStyle.Render("pass")
		if !e.Passed {
			status = failStyle.Render("fail")
		}

		line := fmt.Sprintf("  %s  %s  %s  %-2s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			scoreStyled,
			domain.GradeFor(e.Overall),
			status,
		)

		if i > 0 {
			diff := e.Overall - entries[i-1].Overall
			if diff > 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%d", diff))
			} else if diff < 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%d", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}
