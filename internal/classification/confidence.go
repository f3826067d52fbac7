package classification

import (
	"math"

	"github.com/Veraticus/four-pillars/internal/model"
)

// Confidence weights. The flow weight is the winning contribution itself.
const (
	WeightCompleteness = 0.20
	WeightDominance    = 0.15
	WeightGate         = 0.15
	WeightPairs        = 0.15
	WeightBalance      = 0.07
)

// ConfidenceInputs are the intermediate values the confidence score depends on.
type ConfidenceInputs struct {
	Matrix       model.ElementMatrix
	Contribution float64
	DayMaster    model.Stem
	Winner       model.Constitution
	Gate         model.Gate
}

// ScoreConfidence combines the structural checks into a score within [0, 1].
// Each component reports the weight it earned; Total is rounded to two places.
func ScoreConfidence(in ConfidenceInputs) model.Confidence {
	var c model.Confidence
	totals := in.Matrix.Totals

	complete := true
	for _, n := range totals {
		if n < 1 {
			complete = false
		}
	}
	if complete {
		c.Completeness = WeightCompleteness
	}

	dm := in.DayMaster.Element()
	if totals[dm] >= 1 && totals[dm.Child()] >= 1 {
		c.DominanceConsistency = WeightDominance
	}

	if in.Gate == model.Dense || in.Gate == model.Hollow {
		c.GateClarity = WeightGate
	}

	c.Flow = in.Contribution

	if in.Winner.Valid() && in.Winner.Sibling().Valid() && in.Winner.Opposite().Valid() {
		c.PairCoherence = WeightPairs
	}

	// No distortion rule exists yet, so balance is always earned.
	c.Balance = WeightBalance

	total := c.Completeness + c.DominanceConsistency + c.GateClarity + c.Flow + c.PairCoherence + c.Balance
	c.Total = math.Min(1, math.Max(0, math.Round(total*100)/100))
	return c
}

// AuditResult runs the self-checks over a finished classification.
func AuditResult(chart model.Chart, m model.ElementMatrix, winner FlowEvidence) model.Audit {
	return model.Audit{
		PolarityValidation:     ResolveGate(chart.DayMaster().Polarity()) == winner.Constitution.Gate(),
		ElementalCoherence:     elementalCoherence(m, winner),
		CanonicalFlowIntegrity: canonicalFlow(winner),
	}
}

// elementalCoherence checks that every station reads its organ's element total
// and that the matrix totals account for every stem occurrence.
func elementalCoherence(m model.ElementMatrix, ev FlowEvidence) bool {
	if m.Totals.Total() != m.StemsTotal || m.Polarity.Total() != m.StemsTotal {
		return false
	}
	for _, r := range ev.Reports {
		e, ok := r.Organ.Element()
		if !ok || e != r.Element || r.Count != m.Totals[e] || len(r.Sources) != r.Count {
			return false
		}
	}
	return true
}

func canonicalFlow(ev FlowEvidence) bool {
	flow := ev.Constitution.Flow()
	organs := ev.Organs()
	if len(organs) != len(flow) {
		return false
	}
	for i := range flow {
		if organs[i] != flow[i] {
			return false
		}
	}
	return true
}
