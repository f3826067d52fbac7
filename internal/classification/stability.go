package classification

import (
	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
)

// Tie-break rules, in the order they are tried.
const (
	RuleDominantStable = "dominant-stable"
	RuleBilateralRoot  = "bilateral-root"
	RuleRootStrength   = "root-strength"
)

// Root weights. Hidden stems do not root an element.
const (
	visibleRootWeight = 1
	branchRootWeight  = 2
)

// ElementStability describes an element's position in the generative cycle.
type ElementStability struct {
	Element             model.Element `json:"element"`
	RootStrength        int           `json:"root_strength"`
	ParentStrength      int           `json:"parent_strength"`
	ChildStrength       int           `json:"child_strength"`
	BilateralSupport    bool          `json:"bilateral_support"`
	OverDemanding       bool          `json:"over_demanding"`
	ParentOverDemanding bool          `json:"parent_over_demanding"`
	Stable              bool          `json:"stable"`
}

// StabilityReport holds one entry per element, indexed by element.
type StabilityReport [model.ElementCount]ElementStability

// RootStrengths counts visible stems once and branch primary elements twice.
func RootStrengths(chart model.Chart) model.ElementCounts {
	var roots model.ElementCounts
	for _, p := range chart.Pillars() {
		roots[p.Stem.Element()] += visibleRootWeight
		roots[p.Branch.Element()] += branchRootWeight
	}
	return roots
}

// AnalyzeStability computes bilateral support and over-demand for every element.
func AnalyzeStability(chart model.Chart) StabilityReport {
	roots := RootStrengths(chart)

	var report StabilityReport
	for _, e := range model.Elements {
		parent, child := e.Parent(), e.Child()
		grandparent := parent.Parent()

		s := ElementStability{
			Element:             e,
			RootStrength:        roots[e],
			ParentStrength:      roots[parent],
			ChildStrength:       roots[child],
			BilateralSupport:    roots[parent] > 0 && roots[child] > 0,
			OverDemanding:       roots[e] > roots[parent],
			ParentOverDemanding: roots[parent] > roots[grandparent],
		}
		s.Stable = s.BilateralSupport && !s.OverDemanding && !s.ParentOverDemanding
		report[e] = s
	}
	return report
}

// Dominance weights, in tenths: self 1.0, parent 0.9, child 0.8.
const (
	selfWeight   = 10
	parentWeight = 9
	childWeight  = 8
)

// dominantCandidates excludes Fire, which never anchors a constitution family.
var dominantCandidates = [...]model.Element{model.Wood, model.Earth, model.Metal, model.Water}

// DominantElement returns the non-Fire element with the highest weighted support in the matrix.
// Ties keep the earlier element in Wood, Earth, Metal, Water order.
func DominantElement(m model.ElementMatrix) model.Element {
	best, bestScore := dominantCandidates[0], -1
	for _, e := range dominantCandidates {
		score := selfWeight*m.Totals[e] + parentWeight*m.Totals[e.Parent()] + childWeight*m.Totals[e.Child()]
		if score > bestScore {
			best, bestScore = e, score
		}
	}
	return best
}

// TieBreak explains how tied candidates were separated.
type TieBreak struct {
	Rule      string
	Tied      []model.Constitution
	Stability StabilityReport
	Winner    model.Constitution
	Dominant  model.Element
}

// Summary converts the tie-break for output.
func (t TieBreak) Summary() *model.TieBreakSummary {
	tied := make([]model.Constitution, len(t.Tied))
	copy(tied, t.Tied)
	return &model.TieBreakSummary{Rule: t.Rule, Tied: tied, Dominant: t.Dominant}
}

// BreakTie picks one constitution from tied candidates using the stability of each
// candidate's family element. Only families rooted in the chart's visible stems or
// branches can win on stability or bilateral support. tied must be non-empty and in
// canonical order.
func BreakTie(tied []model.Constitution, chart model.Chart, m model.ElementMatrix) TieBreak {
	stability := AnalyzeStability(chart)
	tb := TieBreak{
		Tied:      tied,
		Stability: stability,
		Dominant:  DominantElement(m),
	}

	var bilateral []model.Constitution
	dominantStable := false
	for _, c := range tied {
		s := stability[c.Family()]
		if s.RootStrength == 0 {
			continue
		}
		if c.Family() == tb.Dominant && s.Stable && !dominantStable {
			dominantStable = true
			tb.Winner = c
		}
		if s.BilateralSupport {
			bilateral = append(bilateral, c)
		}
	}

	switch {
	case dominantStable:
		tb.Rule = RuleDominantStable
	case len(bilateral) > 0:
		tb.Rule = RuleBilateralRoot
		tb.Winner = highestRoot(bilateral, stability)
	default:
		tb.Rule = RuleRootStrength
		tb.Winner = highestRoot(tied, stability)
	}

	common.LogDebug("Tie broken", common.Fields{
		"rule":     tb.Rule,
		"winner":   tb.Winner.String(),
		"dominant": tb.Dominant.String(),
		"tied":     len(tied),
	})
	return tb
}

func highestRoot(candidates []model.Constitution, stability StabilityReport) model.Constitution {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if stability[c.Family()].RootStrength > stability[best.Family()].RootStrength {
			best = c
		}
	}
	return best
}
