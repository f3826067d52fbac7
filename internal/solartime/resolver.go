// Package solartime converts civil birth times to local true solar time.
package solartime

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
)

const (
	// DateLayout is the accepted birth date format.
	DateLayout = "2006-01-02"
	// ClockLayout is the accepted birth time format.
	ClockLayout = "15:04"

	minutesPerDegree = 4.0
	degreesPerHour   = 15.0
	defaultDSTShift  = time.Hour
)

// Resolver converts civil time at a location to true solar time.
type Resolver struct {
	loadLocation func(name string) (*time.Location, error)
}

// NewResolver creates a resolver backed by the IANA database.
func NewResolver() *Resolver {
	return &Resolver{loadLocation: time.LoadLocation}
}

// ParseDate parses a YYYY-MM-DD birth date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", common.ErrInvalidDate, date)
	}
	return t, nil
}

// ParseClock parses an HH:MM birth time and returns hour and minute.
func ParseClock(clock string) (int, int, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(clock))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q must be HH:MM", common.ErrInvalidDate, clock)
	}
	return t.Hour(), t.Minute(), nil
}

// Resolve converts the civil date and clock at loc to true solar time.
// A nil dstOverride detects daylight saving from the zone rules.
func (r *Resolver) Resolve(date, clock string, loc model.Location, dstOverride *bool) (model.ResolvedTime, error) {
	day, err := ParseDate(date)
	if err != nil {
		return model.ResolvedTime{}, err
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return model.ResolvedTime{}, err
	}
	if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
		return model.ResolvedTime{}, fmt.Errorf("%w: longitude %v out of range", common.ErrInvalidDate, loc.Longitude)
	}

	zone, zoneName, fallback := r.zone(loc)

	civil := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, zone)
	_, offset := civil.Zone()
	standard := StandardOffset(zone, day.Year())

	isDST := offset > standard
	shift := time.Duration(offset-standard) * time.Second
	if dstOverride != nil {
		isDST = *dstOverride
		switch {
		case !isDST:
			shift = 0
		case shift <= 0:
			shift = defaultDSTShift
		}
	}

	standardHours := float64(standard) / 3600
	correction := (loc.Longitude - standardHours*degreesPerHour) * minutesPerDegree

	// Work on a zone-free wall clock so rollover never crosses a DST transition.
	wall := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
	solar := wall.Add(-shift).Add(time.Duration(correction * float64(time.Minute))).Round(time.Minute)

	return model.ResolvedTime{
		Year:                solar.Year(),
		Month:               int(solar.Month()),
		Day:                 solar.Day(),
		Hour:                solar.Hour(),
		Minute:              solar.Minute(),
		SolarDate:           solar.Format(DateLayout),
		SolarTime:           solar.Format(ClockLayout),
		IsDST:               isDST,
		UTCOffsetHours:      float64(offset) / 3600,
		StandardOffsetHours: standardHours,
		DSTShiftMinutes:     int(shift / time.Minute),
		CorrectionMinutes:   roundTo(correction, 2),
		Timezone:            zoneName,
		TimezoneFallback:    fallback || loc.TimezoneFallback,
	}, nil
}

func (r *Resolver) zone(loc model.Location) (*time.Location, string, bool) {
	if loc.Timezone == "" {
		common.LogWarn("No timezone for location, falling back to UTC", common.Fields{
			"place": loc.Name,
		})
		return time.UTC, "UTC", true
	}
	zone, err := r.loadLocation(loc.Timezone)
	if err != nil {
		common.LogWarn("Timezone could not be loaded, falling back to UTC", common.Fields{
			"place":    loc.Name,
			"timezone": loc.Timezone,
			"error":    fmt.Errorf("%w: %w", common.ErrTimezoneResolutionFailed, err).Error(),
		})
		return time.UTC, "UTC", true
	}
	return zone, loc.Timezone, false
}

// StandardOffset returns the zone's non-DST offset in seconds for the year.
// The smaller of the January and July offsets is standard in both hemispheres.
func StandardOffset(zone *time.Location, year int) int {
	_, jan := time.Date(year, time.January, 1, 12, 0, 0, 0, zone).Zone()
	_, jul := time.Date(year, time.July, 1, 12, 0, 0, 0, zone).Zone()
	if jul < jan {
		return jul
	}
	return jan
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
