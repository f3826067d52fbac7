package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/four-pillars/internal/model"
)

// RenderSummary renders the styled text summary printed by the classify command.
func RenderSummary(result *model.ClassificationResult) string {
	sections := []string{
		formatTitle(summaryTitle(result)),
		renderPillars(result),
		renderElements(result),
		renderConstitution(result),
	}
	if t := result.Time; t != nil {
		sections = append(sections, SubtleStyle.Render(fmt.Sprintf("Solar time %s %s in %s (%+.2f min)",
			t.SolarDate, t.SolarTime, t.Timezone, t.CorrectionMinutes)))
	}
	for _, w := range result.Warnings {
		sections = append(sections, FormatWarning(w))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func summaryTitle(result *model.ClassificationResult) string {
	if result.Name == "" {
		return "Four Pillars"
	}
	return "Four Pillars for " + result.Name
}

func renderPillars(result *model.ClassificationResult) string {
	columns := make([]string, 0, len(result.Pillars))
	for _, p := range result.Pillars {
		col := lipgloss.JoinVertical(lipgloss.Center,
			TableHeaderStyle.Render(p.Slot.String()),
			ElementStyle(p.Stem.Element).Bold(true).Render(p.Stem.Glyph),
			ElementStyle(p.Branch.Element).Bold(true).Render(p.Branch.Glyph),
			SubtleStyle.Render(p.Stem.Pinyin+" "+p.Branch.Pinyin),
		)
		columns = append(columns, TableCellStyle.Render(col))
	}
	return boxStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
}

func renderElements(result *model.ClassificationResult) string {
	parts := make([]string, 0, model.ElementCount)
	for _, e := range model.Elements {
		parts = append(parts, ElementStyle(e).Render(fmt.Sprintf("%s %d", e, result.Matrix.Totals[e])))
	}
	return strings.Join(parts, "  ") + SubtleStyle.Render(fmt.Sprintf("  · %s", result.Polarity.Ratio))
}

func renderConstitution(result *model.ClassificationResult) string {
	c := result.Constitution
	organs := make([]string, 0, len(c.Flow))
	for _, o := range c.Flow {
		organs = append(organs, string(o))
	}

	lines := []string{
		boldStyle.Render(c.Type.String()) + " " +
			SubtleStyle.Render(fmt.Sprintf("(%s gate, %s)", c.Gate, c.Respiration)),
		subtitleStyle.Render(strings.Join(organs, " → ")),
		fmt.Sprintf("Confidence %s", confidenceStyle(result.Confidence.Total).Render(fmt.Sprintf("%.2f", result.Confidence.Total))),
	}
	if tb := result.TieBreak; tb != nil {
		lines = append(lines, SubtleStyle.Render("Tie broken by "+tb.Rule))
	}
	return renderBox("Constitution", strings.Join(lines, "\n"))
}

func confidenceStyle(total float64) lipgloss.Style {
	switch {
	case total >= 0.8:
		return successStyle
	case total >= 0.6:
		return warningStyle
	default:
		return errorStyle
	}
}
