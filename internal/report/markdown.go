// Package report renders classification results as Markdown and terminal output.
package report

import (
	"fmt"
	"strings"

	"github.com/Veraticus/four-pillars/internal/model"
)

// Markdown renders result as a self-contained Markdown document.
func Markdown(result *model.ClassificationResult) string {
	var b strings.Builder

	title := "Constitution report"
	if result.Name != "" {
		title += ": " + result.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	c := result.Constitution
	fmt.Fprintf(&b, "**%s** (%s gate, %s family), confidence **%.2f**\n\n",
		c.Type, c.Gate, c.Family, result.Confidence.Total)

	writeBirth(&b, result)
	writePillars(&b, result)
	writeMatrix(&b, result)
	writeFlow(&b, result)
	writeCandidates(&b, result)
	writeConfidence(&b, result)

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "_Case %s_\n", result.CaseID)
	return b.String()
}

func writeBirth(b *strings.Builder, result *model.ClassificationResult) {
	if result.Location == nil && result.Time == nil {
		return
	}
	b.WriteString("## Birth\n\n")
	if loc := result.Location; loc != nil {
		place := loc.DisplayName
		if place == "" {
			place = loc.Name
		}
		fmt.Fprintf(b, "- Place: %s (%.4f, %.4f), %s\n", place, loc.Latitude, loc.Longitude, loc.Source)
	}
	if t := result.Time; t != nil {
		dst := "no"
		if t.IsDST {
			dst = fmt.Sprintf("yes (%d min)", t.DSTShiftMinutes)
		}
		fmt.Fprintf(b, "- Timezone: %s (UTC%+.2f, standard UTC%+.2f)\n", t.Timezone, t.UTCOffsetHours, t.StandardOffsetHours)
		fmt.Fprintf(b, "- Daylight saving: %s\n", dst)
		fmt.Fprintf(b, "- Solar time: %s %s (%+.2f min)\n", t.SolarDate, t.SolarTime, t.CorrectionMinutes)
	}
	b.WriteString("\n")
}

func writePillars(b *strings.Builder, result *model.ClassificationResult) {
	b.WriteString("## Pillars\n\n")
	b.WriteString("| Pillar | Glyphs | Stem | Branch | Hidden |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, p := range result.Pillars {
		hidden := make([]string, 0, len(p.Branch.Hidden))
		for _, s := range p.Branch.Hidden {
			hidden = append(hidden, s.Glyph())
		}
		fmt.Fprintf(b, "| %s | %s | %s %s (%s %s) | %s %s (%s) | %s |\n",
			p.Slot, p.Glyphs,
			p.Stem.Glyph, p.Stem.Pinyin, p.Stem.Polarity, p.Stem.Element,
			p.Branch.Glyph, p.Branch.Pinyin, p.Branch.Animal,
			strings.Join(hidden, " "))
	}
	fmt.Fprintf(b, "\nPolarity %s (%d%% Yang, %d%% Yin)\n\n",
		result.Polarity.Ratio, result.Polarity.YangPercent, result.Polarity.YinPercent)
}

func writeMatrix(b *strings.Builder, result *model.ClassificationResult) {
	b.WriteString("## Element matrix\n\n")
	b.WriteString("| Pillar |")
	for _, e := range model.Elements {
		fmt.Fprintf(b, " %s |", e)
	}
	b.WriteString(" Total |\n|---|---|---|---|---|---|---|\n")

	for _, row := range result.Matrix.Rows {
		fmt.Fprintf(b, "| %s |", row.Label)
		for _, n := range row.Counts {
			fmt.Fprintf(b, " %d |", n)
		}
		fmt.Fprintf(b, " %d |\n", row.Total)
	}
	b.WriteString("| **Total** |")
	for _, n := range result.Matrix.Totals {
		fmt.Fprintf(b, " **%d** |", n)
	}
	fmt.Fprintf(b, " **%d** |\n\n", result.Matrix.StemsTotal)
}

func writeFlow(b *strings.Builder, result *model.ClassificationResult) {
	b.WriteString("## Flow\n\n")
	organs := make([]string, 0, len(result.Constitution.Flow))
	for _, o := range result.Constitution.Flow {
		organs = append(organs, string(o))
	}
	fmt.Fprintf(b, "%s (%s, sibling %s, opposite %s)\n\n",
		strings.Join(organs, " → "), result.Constitution.Respiration,
		result.Constitution.Sibling, result.Constitution.Opposite)

	b.WriteString("| Station | Organ | Element | Count | Strength |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, s := range result.Stations {
		fmt.Fprintf(b, "| %d | %s | %s | %d | %s |\n", s.Position, s.Organ, s.Element, s.Count, s.Strength)
	}
	b.WriteString("\n")
}

func writeCandidates(b *strings.Builder, result *model.ClassificationResult) {
	b.WriteString("## Candidates\n\n")
	b.WriteString("| Constitution | Stations present | Station sum | Contribution |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, c := range result.Candidates {
		name := c.Constitution.String()
		if c.Constitution == result.Constitution.Type {
			name = "**" + name + "**"
		}
		fmt.Fprintf(b, "| %s | %d | %d | %.2f |\n", name, c.PresentStations, c.StationSum, c.Contribution)
	}
	if tb := result.TieBreak; tb != nil {
		tied := make([]string, 0, len(tb.Tied))
		for _, c := range tb.Tied {
			tied = append(tied, c.String())
		}
		fmt.Fprintf(b, "\nTie between %s broken by rule `%s` (dominant element %s).\n",
			strings.Join(tied, ", "), tb.Rule, tb.Dominant)
	}
	b.WriteString("\n")
}

func writeConfidence(b *strings.Builder, result *model.ClassificationResult) {
	c := result.Confidence
	a := result.Audit
	b.WriteString("## Confidence\n\n")
	b.WriteString("| Check | Score |\n|---|---|\n")
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"Completeness", c.Completeness},
		{"Dominance consistency", c.DominanceConsistency},
		{"Gate clarity", c.GateClarity},
		{"Flow", c.Flow},
		{"Pair coherence", c.PairCoherence},
		{"Balance", c.Balance},
	} {
		fmt.Fprintf(b, "| %s | %.2f |\n", row.name, row.value)
	}
	fmt.Fprintf(b, "| **Total** | **%.2f** |\n\n", c.Total)

	fmt.Fprintf(b, "Audit: polarity %s, elemental coherence %s, flow integrity %s\n\n",
		check(a.PolarityValidation), check(a.ElementalCoherence), check(a.CanonicalFlowIntegrity))
}

func check(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}
