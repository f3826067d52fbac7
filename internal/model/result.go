package model

import (
	"encoding/json"
	"fmt"
)

// Visibility tags whether a stem occurrence is the pillar's visible stem or hidden in its branch.
type Visibility int

// Visibilities.
const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}

// MarshalJSON encodes the visibility by name.
func (v Visibility) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// SourceHit records one stem occurrence contributing to an element count.
type SourceHit struct {
	Slot       Slot       `json:"slot"`
	Stem       Stem       `json:"stem"`
	Visibility Visibility `json:"visibility"`
}

func (h SourceHit) String() string {
	return fmt.Sprintf("%s %s (%s)", h.Slot, h.Stem, h.Visibility)
}

// MatrixRow is one pillar's contribution to the element matrix.
type MatrixRow struct {
	Label  string        `json:"label"`
	Counts ElementCounts `json:"counts"`
	Pillar Pillar        `json:"pillar"`
	Slot   Slot          `json:"slot"`
	Total  int           `json:"total"`
}

// ElementMatrix aggregates visible and hidden stems across the chart.
type ElementMatrix struct {
	Sources         [ElementCount][]SourceHit    `json:"-"`
	Rows            [4]MatrixRow                 `json:"rows"`
	ElementPolarity [ElementCount]PolarityCounts `json:"element_polarity"`
	Totals          ElementCounts                `json:"totals"`
	Polarity        PolarityCounts               `json:"polarity"`
	StemsTotal      int                          `json:"stems_total"`
}

// StationReport is one step of a constitution's flow read against the matrix.
type StationReport struct {
	Organ    Organ       `json:"organ"`
	Strength string      `json:"strength"`
	Sources  []SourceHit `json:"sources"`
	Position int         `json:"position"`
	Element  Element     `json:"element"`
	Count    int         `json:"count"`
}

// CandidateScore summarizes the flow evidence of one same-gate candidate.
type CandidateScore struct {
	Constitution    Constitution `json:"constitution"`
	Contribution    float64      `json:"contribution"`
	StationSum      int          `json:"station_sum"`
	PresentStations int          `json:"present_stations"`
	Valid           bool         `json:"valid"`
	Weak            bool         `json:"weak"`
}

// Confidence holds the earned value of each structural check and their rounded total.
type Confidence struct {
	Completeness         float64 `json:"completeness"`
	DominanceConsistency float64 `json:"dominance_consistency"`
	GateClarity          float64 `json:"gate_clarity"`
	Flow                 float64 `json:"flow"`
	PairCoherence        float64 `json:"pair_coherence"`
	Balance              float64 `json:"balance"`
	Total                float64 `json:"total"`
}

// Audit holds boolean self-checks over the final result.
type Audit struct {
	PolarityValidation     bool `json:"polarity_validation"`
	ElementalCoherence     bool `json:"elemental_coherence"`
	CanonicalFlowIntegrity bool `json:"canonical_flow_integrity"`
}

// PolaritySummary is the Yang/Yin split with whole-number percentages.
type PolaritySummary struct {
	Ratio       string `json:"ratio"`
	Yang        int    `json:"yang"`
	Yin         int    `json:"yin"`
	YangPercent int    `json:"yang_percent"`
	YinPercent  int    `json:"yin_percent"`
}

// StemDetail decorates a stem for output.
type StemDetail struct {
	Glyph    string   `json:"glyph"`
	Name     string   `json:"name"`
	Pinyin   string   `json:"pinyin"`
	Element  Element  `json:"element"`
	Polarity Polarity `json:"polarity"`
}

// BranchDetail decorates a branch for output.
type BranchDetail struct {
	Glyph    string   `json:"glyph"`
	Name     string   `json:"name"`
	Pinyin   string   `json:"pinyin"`
	Animal   string   `json:"animal"`
	Hidden   []Stem   `json:"hidden_stems"`
	Element  Element  `json:"element"`
	Polarity Polarity `json:"polarity"`
}

// PillarDetail is a fully decorated pillar.
type PillarDetail struct {
	Glyphs string       `json:"glyphs"`
	Branch BranchDetail `json:"branch"`
	Stem   StemDetail   `json:"stem"`
	Slot   Slot         `json:"slot"`
}

// DescribePillar decorates p for output.
func DescribePillar(slot Slot, p Pillar) PillarDetail {
	return PillarDetail{
		Slot:   slot,
		Glyphs: p.String(),
		Stem: StemDetail{
			Glyph:    p.Stem.Glyph(),
			Name:     p.Stem.Name(),
			Pinyin:   p.Stem.Pinyin(),
			Element:  p.Stem.Element(),
			Polarity: p.Stem.Polarity(),
		},
		Branch: BranchDetail{
			Glyph:    p.Branch.Glyph(),
			Name:     p.Branch.Name(),
			Pinyin:   p.Branch.Pinyin(),
			Animal:   p.Branch.Animal(),
			Element:  p.Branch.Element(),
			Polarity: p.Branch.Polarity(),
			Hidden:   p.Branch.HiddenStems(),
		},
	}
}

// ConstitutionSummary is the chosen constitution with its static relations.
type ConstitutionSummary struct {
	Respiration string       `json:"respiration"`
	Type        Constitution `json:"type"`
	Gate        Gate         `json:"gate"`
	Sibling     Constitution `json:"sibling"`
	Opposite    Constitution `json:"opposite"`
	Family      Element      `json:"family"`
	Flow        [5]Organ     `json:"flow"`
}

// Summarize builds the output summary for c.
func (c Constitution) Summarize() ConstitutionSummary {
	info := c.Info()
	return ConstitutionSummary{
		Type:        c,
		Gate:        info.Gate,
		Flow:        info.Flow,
		Sibling:     info.Sibling,
		Opposite:    info.Opposite,
		Family:      info.Family,
		Respiration: info.Gate.Respiration(),
	}
}

// TieBreakSummary explains how a tie between candidates was resolved.
type TieBreakSummary struct {
	Rule     string         `json:"rule"`
	Tied     []Constitution `json:"tied"`
	Dominant Element        `json:"dominant_element"`
}

// ClassificationResult is the terminal output of a classification.
type ClassificationResult struct {
	Location     *Location           `json:"location,omitempty"`
	Time         *ResolvedTime       `json:"time,omitempty"`
	TieBreak     *TieBreakSummary    `json:"tie_break,omitempty"`
	CaseID       string              `json:"case_id"`
	Name         string              `json:"name,omitempty"`
	Pillars      [4]PillarDetail     `json:"pillars"`
	Stations     []StationReport     `json:"stations"`
	Candidates   []CandidateScore    `json:"candidates"`
	Warnings     []string            `json:"warnings,omitempty"`
	Polarity     PolaritySummary     `json:"polarity"`
	Constitution ConstitutionSummary `json:"constitution"`
	Matrix       ElementMatrix       `json:"matrix"`
	Confidence   Confidence          `json:"confidence"`
	Chart        Chart               `json:"chart"`
	Audit        Audit               `json:"audit"`
}
