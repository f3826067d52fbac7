package model

import "fmt"

// Location is a geocoded place.
type Location struct {
	Name             string  `json:"name"`
	DisplayName      string  `json:"display_name"`
	Timezone         string  `json:"timezone"`
	Source           string  `json:"source"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	TimezoneFallback bool    `json:"timezone_fallback"`
}

// Location sources.
const (
	SourceBuiltin   = "builtin"
	SourceCache     = "cache"
	SourceNominatim = "nominatim"
	SourceManual    = "manual"
)

// BirthRecord is the input to a classification.
type BirthRecord struct {
	// DST overrides automatic daylight-saving detection when non-nil.
	DST *bool `json:"dst,omitempty"`
	// Location skips geocoding when non-nil.
	Location *Location `json:"location,omitempty"`
	Name     string    `json:"name"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Place    string    `json:"place"`
}

// ResolvedTime is a civil birth moment converted to true solar time.
type ResolvedTime struct {
	Timezone            string  `json:"timezone"`
	SolarDate           string  `json:"solar_date"`
	SolarTime           string  `json:"solar_time"`
	UTCOffsetHours      float64 `json:"utc_offset_hours"`
	StandardOffsetHours float64 `json:"standard_offset_hours"`
	CorrectionMinutes   float64 `json:"correction_minutes"`
	Year                int     `json:"-"`
	Month               int     `json:"-"`
	Day                 int     `json:"-"`
	Hour                int     `json:"-"`
	Minute              int     `json:"-"`
	DSTShiftMinutes     int     `json:"dst_shift_minutes"`
	IsDST               bool    `json:"is_dst"`
	TimezoneFallback    bool    `json:"timezone_fallback"`
}

// Stamp formats the solar date and time as "YYYY-MM-DD HH:MM".
func (r ResolvedTime) Stamp() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", r.Year, r.Month, r.Day, r.Hour, r.Minute)
}
