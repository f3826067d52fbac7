package testutil

import (
	"testing"

	"github.com/Veraticus/four-pillars/internal/model"
)

// ChartFixture is a known chart with its expected classification.
type ChartFixture struct {
	Name         string
	Year         string
	Month        string
	Day          string
	Hour         string
	Rule         string
	Constitution model.Constitution
	Gate         model.Gate
	Total        int
	Confidence   float64
}

var (
	// WoodHeavy has a dense Wood-family winner decided by bilateral support.
	WoodHeavy = ChartFixture{
		Name: "wood-heavy", Year: "甲子", Month: "乙丑", Day: "丙寅", Hour: "丁卯",
		Constitution: model.Hepatonia, Gate: model.Dense, Rule: "bilateral-root",
		Total: 12, Confidence: 0.92,
	}
	// AllWood repeats 甲寅 in every pillar.
	AllWood = ChartFixture{
		Name: "all-wood", Year: "甲寅", Month: "甲寅", Day: "甲寅", Hour: "甲寅",
		Constitution: model.Hepatonia, Gate: model.Dense,
		Total: 16, Confidence: 0.77,
	}
)

// Glyphs returns the four pillars in year, month, day, hour order.
func (f ChartFixture) Glyphs() [4]string {
	return [4]string{f.Year, f.Month, f.Day, f.Hour}
}

// Chart parses the fixture or fails the test.
func (f ChartFixture) Chart(t *testing.T) model.Chart {
	t.Helper()
	return MustChart(t, f.Year, f.Month, f.Day, f.Hour)
}

// MustChart parses four pillar glyphs or fails the test.
func MustChart(t *testing.T, year, month, day, hour string) model.Chart {
	t.Helper()
	chart, err := model.ParseChart(year, month, day, hour)
	if err != nil {
		t.Fatalf("failed to parse chart %s %s %s %s: %v", year, month, day, hour, err)
	}
	return chart
}
