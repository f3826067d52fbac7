// Package classification scores a four pillar chart against the eight constitutions.
package classification

import (
	"fmt"
	"math"

	"github.com/Veraticus/four-pillars/internal/model"
)

// Element strength labels.
const (
	StrengthVeryStrong = "Very Strong"
	StrengthStrong     = "Strong"
	StrengthModerate   = "Moderate"
	StrengthWeak       = "Weak"
	StrengthAbsent     = "Weak/Absent"
)

// BuildMatrix expands each pillar's visible stem and hidden stems into element and polarity counts.
// The branch's own primary element is not counted; it only feeds root strength.
func BuildMatrix(chart model.Chart) (model.ElementMatrix, error) {
	if err := chart.Validate(); err != nil {
		return model.ElementMatrix{}, err
	}

	var m model.ElementMatrix
	for i, slot := range model.Slots {
		pillar := chart.Pillar(slot)
		row := model.MatrixRow{
			Slot:   slot,
			Label:  fmt.Sprintf("%s %s", slot, pillar),
			Pillar: pillar,
		}

		m.AddStem(&row, slot, pillar.Stem, model.Visible)
		for _, hidden := range pillar.Branch.HiddenStems() {
			m.AddStem(&row, slot, hidden, model.Hidden)
		}
		m.Rows[i] = row
	}
	return m, nil
}

// ElementStrength labels a vertical element total.
func ElementStrength(count int) string {
	switch {
	case count >= 4:
		return StrengthVeryStrong
	case count == 3:
		return StrengthStrong
	case count == 2:
		return StrengthModerate
	case count == 1:
		return StrengthWeak
	default:
		return StrengthAbsent
	}
}

// StationStrength labels a flow station count.
func StationStrength(count int) string {
	switch {
	case count >= 3:
		return StrengthStrong
	case count == 2:
		return StrengthModerate
	case count == 1:
		return StrengthWeak
	default:
		return StrengthAbsent
	}
}

// SummarizePolarity reports the Yang/Yin split with percentages rounded half up.
func SummarizePolarity(counts model.PolarityCounts) model.PolaritySummary {
	return model.PolaritySummary{
		Yang:        counts.Yang,
		Yin:         counts.Yin,
		YangPercent: percent(counts.Yang, counts.Total()),
		YinPercent:  percent(counts.Yin, counts.Total()),
		Ratio:       fmt.Sprintf("%d/%d", counts.Yang, counts.Yin),
	}
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(n)*100/float64(total) + 0.5))
}
