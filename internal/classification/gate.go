package classification

import "github.com/Veraticus/four-pillars/internal/model"

// ResolveGate maps the day stem polarity to a gate: Yin is hollow, Yang is dense.
func ResolveGate(dayStemPolarity model.Polarity) model.Gate {
	if dayStemPolarity == model.Yin {
		return model.Hollow
	}
	return model.Dense
}
