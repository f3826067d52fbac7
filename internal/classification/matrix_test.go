package classification

import (
	"testing"

	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatrix(t *testing.T) {
	chart := mustChart(t, "甲子", "乙丑", "丙寅", "丁卯")
	m := mustMatrix(t, chart)

	assert.Equal(t, model.ElementCounts{4, 3, 2, 1, 2}, m.Totals)
	assert.Equal(t, 12, m.StemsTotal)
	assert.Equal(t, m.StemsTotal, m.Totals.Total())
	assert.Equal(t, model.PolarityCounts{Yang: 5, Yin: 7}, m.Polarity)

	labels := []string{"Year 甲子", "Month 乙丑", "Day 丙寅", "Hour 丁卯"}
	for i, row := range m.Rows {
		assert.Equal(t, labels[i], row.Label)
		assert.Equal(t, model.Slots[i], row.Slot)
	}

	wood := m.Sources[model.Wood]
	require.Len(t, wood, 4)
	assert.Equal(t, model.SourceHit{Slot: model.YearSlot, Stem: 0, Visibility: model.Visible}, wood[0])
	assert.Equal(t, model.SourceHit{Slot: model.DaySlot, Stem: 0, Visibility: model.Hidden}, wood[2])
}

func TestBuildMatrixTotalsEqualVisiblePlusHidden(t *testing.T) {
	charts := [][4]string{
		{"甲子", "乙丑", "丙寅", "丁卯"},
		{"癸亥", "乙卯", "丁巳", "丙午"},
		{"庚申", "戊戌", "壬辰", "辛未"},
		{"己酉", "甲子", "癸卯", "壬子"},
	}

	for _, glyphs := range charts {
		chart := mustChart(t, glyphs[0], glyphs[1], glyphs[2], glyphs[3])
		m := mustMatrix(t, chart)

		want := 0
		for i, p := range chart.Pillars() {
			rowWant := 1 + len(p.Branch.HiddenStems())
			assert.Equal(t, rowWant, m.Rows[i].Counts.Total(), chart.Key())
			assert.Equal(t, rowWant, m.Rows[i].Total)
			want += rowWant
		}
		assert.Equal(t, want, m.Totals.Total(), chart.Key())
		assert.Equal(t, want, m.Polarity.Total())

		polarityByElement := 0
		for _, pc := range m.ElementPolarity {
			polarityByElement += pc.Total()
		}
		assert.Equal(t, want, polarityByElement)
	}
}

func TestBuildMatrixRejectsUnknownSymbol(t *testing.T) {
	_, err := BuildMatrix(model.Chart{Hour: model.Pillar{Stem: 0, Branch: 12}})
	assert.ErrorIs(t, err, model.ErrUnknownSymbol)
}

func TestStrengthLabels(t *testing.T) {
	tests := []struct {
		count   int
		element string
		station string
	}{
		{0, StrengthAbsent, StrengthAbsent},
		{1, StrengthWeak, StrengthWeak},
		{2, StrengthModerate, StrengthModerate},
		{3, StrengthStrong, StrengthStrong},
		{4, StrengthVeryStrong, StrengthStrong},
		{9, StrengthVeryStrong, StrengthStrong},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.element, ElementStrength(tt.count), "element %d", tt.count)
		assert.Equal(t, tt.station, StationStrength(tt.count), "station %d", tt.count)
	}
}

func TestSummarizePolarity(t *testing.T) {
	got := SummarizePolarity(model.PolarityCounts{Yang: 5, Yin: 7})
	assert.Equal(t, model.PolaritySummary{Yang: 5, Yin: 7, YangPercent: 42, YinPercent: 58, Ratio: "5/7"}, got)

	half := SummarizePolarity(model.PolarityCounts{Yang: 1, Yin: 7})
	assert.Equal(t, 13, half.YangPercent) // 12.5 rounds up
	assert.Equal(t, 88, half.YinPercent)

	assert.Equal(t, 0, SummarizePolarity(model.PolarityCounts{}).YangPercent)
}

func TestGateFollowsDayStemPolarityOnly(t *testing.T) {
	yang := mustChart(t, "甲子", "乙丑", "丙寅", "丁卯")
	yin := yang
	yin.Day.Stem = 3 // 丁: same element, Yin

	assert.Equal(t, model.Dense, ResolveGate(yang.DayMaster().Polarity()))
	assert.Equal(t, model.Hollow, ResolveGate(yin.DayMaster().Polarity()))

	before, after := mustMatrix(t, yang), mustMatrix(t, yin)
	assert.Equal(t, before.Totals, after.Totals)
	assert.Equal(t, before.Polarity.Yang-1, after.Polarity.Yang)
	assert.Equal(t, before.Polarity.Yin+1, after.Polarity.Yin)
}
