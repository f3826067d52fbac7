package solartime

import (
	"testing"
	_ "time/tzdata"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	newYork = model.Location{Name: "new york", Latitude: 40.7128, Longitude: -74.0060, Timezone: "America/New_York"}
	tokyo   = model.Location{Name: "tokyo", Latitude: 35.6762, Longitude: 139.6503, Timezone: "Asia/Tokyo"}
	london  = model.Location{Name: "london", Latitude: 51.5074, Longitude: -0.1278, Timezone: "Europe/London"}
	sydney  = model.Location{Name: "sydney", Latitude: -33.8688, Longitude: 151.2093, Timezone: "Australia/Sydney"}
)

func boolPtr(b bool) *bool { return &b }

func TestResolve(t *testing.T) {
	tests := []struct {
		dst            *bool
		name           string
		date           string
		clock          string
		wantDate       string
		wantTime       string
		loc            model.Location
		wantOffset     float64
		wantStandard   float64
		wantShift      int
		wantCorrection float64
		wantDST        bool
	}{
		{
			name: "new york summer undoes daylight saving",
			date: "1990-07-15", clock: "14:30", loc: newYork,
			wantDate: "1990-07-15", wantTime: "13:34",
			wantDST: true, wantOffset: -4, wantStandard: -5, wantShift: 60, wantCorrection: 3.98,
		},
		{
			name: "new york summer with daylight saving forced off",
			date: "1990-07-15", clock: "14:30", loc: newYork, dst: boolPtr(false),
			wantDate: "1990-07-15", wantTime: "14:34",
			wantDST: false, wantOffset: -4, wantStandard: -5, wantShift: 0, wantCorrection: 3.98,
		},
		{
			name: "new york winter with daylight saving forced on",
			date: "1990-01-15", clock: "12:00", loc: newYork, dst: boolPtr(true),
			wantDate: "1990-01-15", wantTime: "11:04",
			wantDST: true, wantOffset: -5, wantStandard: -5, wantShift: 60, wantCorrection: 3.98,
		},
		{
			name: "tokyo east of its meridian",
			date: "2000-01-01", clock: "00:10", loc: tokyo,
			wantDate: "2000-01-01", wantTime: "00:29",
			wantOffset: 9, wantStandard: 9, wantCorrection: 18.6,
		},
		{
			name: "london rolls back across new year",
			date: "2000-01-01", clock: "00:00", loc: london,
			wantDate: "1999-12-31", wantTime: "23:59",
			wantOffset: 0, wantStandard: 0, wantCorrection: -0.51,
		},
		{
			name: "sydney daylight saving in january",
			date: "2000-01-15", clock: "12:00", loc: sydney,
			wantDate: "2000-01-15", wantTime: "11:05",
			wantDST: true, wantOffset: 11, wantStandard: 10, wantShift: 60, wantCorrection: 4.84,
		},
	}

	resolver := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(tt.date, tt.clock, tt.loc, tt.dst)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDate, got.SolarDate)
			assert.Equal(t, tt.wantTime, got.SolarTime)
			assert.Equal(t, tt.wantDST, got.IsDST)
			assert.InDelta(t, tt.wantOffset, got.UTCOffsetHours, 1e-9)
			assert.InDelta(t, tt.wantStandard, got.StandardOffsetHours, 1e-9)
			assert.Equal(t, tt.wantShift, got.DSTShiftMinutes)
			assert.InDelta(t, tt.wantCorrection, got.CorrectionMinutes, 1e-9)
			assert.False(t, got.TimezoneFallback)
			assert.Equal(t, tt.loc.Timezone, got.Timezone)
		})
	}
}

func TestResolveSolarFieldsMatchStamp(t *testing.T) {
	got, err := NewResolver().Resolve("2000-01-01", "00:00", london, nil)
	require.NoError(t, err)
	assert.Equal(t, 1999, got.Year)
	assert.Equal(t, 12, got.Month)
	assert.Equal(t, 31, got.Day)
	assert.Equal(t, 23, got.Hour)
	assert.Equal(t, 59, got.Minute)
	assert.Equal(t, "1999-12-31 23:59", got.Stamp())
}

func TestResolveFallsBackToUTC(t *testing.T) {
	loc := model.Location{Name: "atlantis", Longitude: 15, Timezone: "Atlantis/Lost_City"}
	got, err := NewResolver().Resolve("2001-03-03", "10:00", loc, nil)
	require.NoError(t, err)

	assert.True(t, got.TimezoneFallback)
	assert.Equal(t, "UTC", got.Timezone)
	assert.InDelta(t, 60.0, got.CorrectionMinutes, 1e-9)
	assert.Equal(t, "11:00", got.SolarTime)

	loc.Timezone = ""
	got, err = NewResolver().Resolve("2001-03-03", "10:00", loc, nil)
	require.NoError(t, err)
	assert.True(t, got.TimezoneFallback)
}

func TestResolveRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		lon   float64
	}{
		{name: "month thirteen", date: "1990-13-01", clock: "10:00"},
		{name: "february thirtieth", date: "1990-02-30", clock: "10:00"},
		{name: "wrong separator", date: "1990/01/01", clock: "10:00"},
		{name: "hour twenty-five", date: "1990-01-01", clock: "25:00"},
		{name: "missing minutes", date: "1990-01-01", clock: "10"},
		{name: "longitude out of range", date: "1990-01-01", clock: "10:00", lon: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := model.Location{Longitude: tt.lon, Timezone: "UTC"}
			_, err := NewResolver().Resolve(tt.date, tt.clock, loc, nil)
			assert.ErrorIs(t, err, common.ErrInvalidDate)
		})
	}
}
