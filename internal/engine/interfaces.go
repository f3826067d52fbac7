package engine

import "github.com/Veraticus/four-pillars/internal/model"

// TimeResolver converts a civil birth time at a location to true solar time.
type TimeResolver interface {
	Resolve(date, clock string, loc model.Location, dstOverride *bool) (model.ResolvedTime, error)
}
