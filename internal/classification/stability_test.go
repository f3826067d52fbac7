package classification

import (
	"testing"

	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRootStrengths(t *testing.T) {
	roots := RootStrengths(mustChart(t, "甲子", "乙丑", "丙寅", "丁卯"))
	assert.Equal(t, model.ElementCounts{6, 2, 2, 0, 2}, roots)
}

func TestAnalyzeStability(t *testing.T) {
	report := AnalyzeStability(mustChart(t, "甲子", "乙丑", "丙寅", "丁卯"))

	wood := report[model.Wood]
	assert.True(t, wood.BilateralSupport)
	assert.True(t, wood.OverDemanding)
	assert.False(t, wood.Stable)

	fire := report[model.Fire]
	assert.True(t, fire.BilateralSupport)
	assert.False(t, fire.OverDemanding)
	assert.True(t, fire.ParentOverDemanding)
	assert.False(t, fire.Stable)

	metal := report[model.Metal]
	assert.Equal(t, 0, metal.RootStrength)
	assert.Equal(t, 2, metal.ParentStrength)
	assert.Equal(t, 2, metal.ChildStrength)
	assert.True(t, metal.Stable, "stability alone does not require a root")

	assert.False(t, report[model.Earth].BilateralSupport)
	assert.False(t, report[model.Water].BilateralSupport)
}

func TestDominantElement(t *testing.T) {
	assert.Equal(t, model.Wood, DominantElement(mustMatrix(t, mustChart(t, "甲子", "乙丑", "丙寅", "丁卯"))))
	assert.Equal(t, model.Metal, DominantElement(mustMatrix(t, mustChart(t, "戊午", "庚辰", "庚子", "辛巳"))))

	// Fire can never be dominant, even when it saturates the chart.
	fire := mustMatrix(t, mustChart(t, "丙午", "丙午", "丙午", "丙午"))
	assert.NotEqual(t, model.Fire, DominantElement(fire))

	assert.Equal(t, model.Wood, DominantElement(model.ElementMatrix{}))
}

func TestBreakTieRules(t *testing.T) {
	dense := model.CandidatesFor(model.Dense)

	tests := []struct {
		name       string
		pillars    [4]string
		wantRule   string
		wantWinner model.Constitution
		wantDom    model.Element
	}{
		{
			name:       "dominant family is stable",
			pillars:    [4]string{"戊午", "庚辰", "庚子", "辛巳"},
			wantRule:   RuleDominantStable,
			wantWinner: model.Pulmonotonia,
			wantDom:    model.Metal,
		},
		{
			name:       "unrooted stable family cannot win",
			pillars:    [4]string{"甲子", "乙丑", "丙寅", "丁卯"},
			wantRule:   RuleBilateralRoot,
			wantWinner: model.Hepatonia,
			wantDom:    model.Wood,
		},
		{
			name:       "only bilateral support",
			pillars:    [4]string{"甲子", "甲子", "丙寅", "甲寅"},
			wantRule:   RuleBilateralRoot,
			wantWinner: model.Hepatonia,
			wantDom:    model.Wood,
		},
		{
			name:       "no support anywhere",
			pillars:    [4]string{"甲寅", "甲寅", "甲寅", "甲寅"},
			wantRule:   RuleRootStrength,
			wantWinner: model.Hepatonia,
			wantDom:    model.Wood,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := mustChart(t, tt.pillars[0], tt.pillars[1], tt.pillars[2], tt.pillars[3])
			m := mustMatrix(t, chart)

			tb := BreakTie(dense[:], chart, m)
			assert.Equal(t, tt.wantRule, tb.Rule)
			assert.Equal(t, tt.wantWinner, tb.Winner)
			assert.Equal(t, tt.wantDom, tb.Dominant)

			summary := tb.Summary()
			assert.Equal(t, tt.wantRule, summary.Rule)
			assert.Len(t, summary.Tied, 4)
		})
	}
}

func TestBreakTieIsOrderStable(t *testing.T) {
	chart := mustChart(t, "甲寅", "甲寅", "甲寅", "甲寅")
	m := mustMatrix(t, chart)

	// Equal roots keep the earlier candidate.
	tied := []model.Constitution{model.Pancreotonia, model.Renotonia}
	tb := BreakTie(tied, chart, m)
	assert.Equal(t, RuleRootStrength, tb.Rule)
	assert.Equal(t, model.Pancreotonia, tb.Winner)
}

func TestBreakTieIgnoresUnrootedFamilies(t *testing.T) {
	chart := mustChart(t, "甲子", "乙丑", "丙寅", "丁卯")
	m := mustMatrix(t, chart)

	// Metal has no visible stem or branch here, so Pulmonotonia cannot win on stability.
	tb := BreakTie([]model.Constitution{model.Pulmonotonia}, chart, m)
	assert.Equal(t, RuleRootStrength, tb.Rule)
	assert.Equal(t, model.Pulmonotonia, tb.Winner)

	tb = BreakTie([]model.Constitution{model.Pulmonotonia, model.Hepatonia}, chart, m)
	assert.Equal(t, RuleBilateralRoot, tb.Rule)
	assert.Equal(t, model.Hepatonia, tb.Winner)
	assert.Equal(t, 0, tb.Stability[model.Metal].RootStrength)
	assert.Equal(t, 6, tb.Stability[model.Wood].RootStrength)
}
