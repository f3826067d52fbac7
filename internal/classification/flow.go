package classification

import (
	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
)

// Flow contributions.
const (
	ContributionFull = 0.25
	ContributionWeak = 0.20
)

// FlowEvidence is one candidate's flow read against the element totals.
type FlowEvidence struct {
	// Reports are ordered from station 5 down to station 1.
	Reports         []model.StationReport
	Contribution    float64
	StationSum      int
	PresentStations int
	Constitution    model.Constitution
	Valid           bool
	Weak            bool
}

// Score summarizes the evidence for output.
func (f FlowEvidence) Score() model.CandidateScore {
	return model.CandidateScore{
		Constitution:    f.Constitution,
		Valid:           f.Valid,
		Weak:            f.Weak,
		Contribution:    f.Contribution,
		StationSum:      f.StationSum,
		PresentStations: f.PresentStations,
	}
}

// Organs returns the station organs in flow order, station 1 first.
func (f FlowEvidence) Organs() []model.Organ {
	organs := make([]model.Organ, len(f.Reports))
	for i, r := range f.Reports {
		organs[len(f.Reports)-1-i] = r.Organ
	}
	return organs
}

// EvaluateFlow walks the constitution's flow from station 5 to 1 and reads each
// station's element total from the matrix.
func EvaluateFlow(c model.Constitution, m model.ElementMatrix) FlowEvidence {
	flow := c.Flow()
	ev := FlowEvidence{
		Constitution: c,
		Reports:      make([]model.StationReport, 0, len(flow)),
		Valid:        true,
	}

	for i := len(flow) - 1; i >= 0; i-- {
		organ := flow[i]
		element, _ := organ.Element()
		count := m.Totals[element]

		sources := make([]model.SourceHit, len(m.Sources[element]))
		copy(sources, m.Sources[element])

		ev.Reports = append(ev.Reports, model.StationReport{
			Position: i + 1,
			Organ:    organ,
			Element:  element,
			Count:    count,
			Strength: StationStrength(count),
			Sources:  sources,
		})

		// Stations read chart-wide totals, so an empty station means the element is
		// absent from the chart. That leaves the flow valid.
		if count == 1 {
			ev.Weak = true
		}
		if count > 0 {
			ev.PresentStations++
		}
		ev.StationSum += count
	}

	ev.Contribution = ContributionFull
	if ev.Weak {
		ev.Contribution = ContributionWeak
	}
	return ev
}

// FlowDecision is the outcome of flow-based selection within a gate.
type FlowDecision struct {
	TieBreak *TieBreak
	// Evidence holds every same-gate candidate in canonical order.
	Evidence []FlowEvidence
	// Ties lists the candidates sharing the best (contribution, station sum), canonical order.
	Ties     []model.Constitution
	Winner   model.Constitution
}

// WinnerEvidence returns the evidence of the selected candidate.
func (d FlowDecision) WinnerEvidence() FlowEvidence {
	for _, ev := range d.Evidence {
		if ev.Constitution == d.Winner {
			return ev
		}
	}
	return FlowEvidence{}
}

// SelectByFlow scores the four candidates admitted by gate and picks one.
// Candidates are compared in canonical order with strict comparisons only.
func SelectByFlow(gate model.Gate, m model.ElementMatrix, chart model.Chart) FlowDecision {
	candidates := model.CandidatesFor(gate)
	decision := FlowDecision{Evidence: make([]FlowEvidence, 0, len(candidates))}
	for _, c := range candidates {
		decision.Evidence = append(decision.Evidence, EvaluateFlow(c, m))
	}

	var best *FlowEvidence
	for i := range decision.Evidence {
		ev := &decision.Evidence[i]
		if best == nil ||
			ev.Contribution > best.Contribution ||
			(ev.Contribution == best.Contribution && ev.StationSum > best.StationSum) {
			best = ev
		}
	}

	for _, ev := range decision.Evidence {
		if ev.Contribution == best.Contribution && ev.StationSum == best.StationSum {
			decision.Ties = append(decision.Ties, ev.Constitution)
		}
	}

	decision.Winner = best.Constitution
	if len(decision.Ties) > 1 {
		tb := BreakTie(decision.Ties, chart, m)
		decision.TieBreak = &tb
		decision.Winner = tb.Winner
	}

	common.LogDebug("Flow selection complete", common.Fields{
		"gate":   gate.String(),
		"winner": decision.Winner.String(),
		"ties":   len(decision.Ties),
	})
	return decision
}
