package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/service"
)

type fixedZones struct {
	zone string
}

func (f fixedZones) ZoneFor(float64, float64) (string, bool) {
	return f.zone, f.zone != ""
}

func fastRetry() NominatimOption {
	return WithRetryOptions(service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond})
}

func TestNominatimClient_Lookup(t *testing.T) {
	var gotAgent, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"lat":"64.1466","lon":"-21.9426","display_name":"Reykjavík, Iceland"}]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(srv.URL, "pillars-test/1.0", time.Second,
		WithZoneFinder(fixedZones{zone: "Atlantic/Reykjavik"}), fastRetry())

	loc, err := c.Lookup(context.Background(), "Reykjavik")
	require.NoError(t, err)
	assert.Equal(t, "pillars-test/1.0", gotAgent)
	assert.Equal(t, "Reykjavik", gotQuery)
	assert.Equal(t, "Reykjavík, Iceland", loc.DisplayName)
	assert.InDelta(t, -21.9426, loc.Longitude, 1e-9)
	assert.Equal(t, "Atlantic/Reykjavik", loc.Timezone)
	assert.Equal(t, model.SourceNominatim, loc.Source)
	assert.False(t, loc.TimezoneFallback)
}

func TestNominatimClient_NoZoneFallsBackToUTC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"0","lon":"-30","display_name":"Mid Atlantic"}]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(srv.URL, "ua", time.Second, WithZoneFinder(fixedZones{}), fastRetry())
	loc, err := c.Lookup(context.Background(), "somewhere at sea")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.Timezone)
	assert.True(t, loc.TimezoneFallback)
}

func TestNominatimClient_Errors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantErr       error
		status        int
		wantCalls     int32
		wantTransient bool
	}{
		{name: "empty result", status: http.StatusOK, body: `[]`, wantErr: common.ErrLocationNotFound, wantCalls: 1},
		{name: "server error retried once", status: http.StatusBadGateway, wantErr: common.ErrGeocoderUnavailable, wantCalls: 2, wantTransient: true},
		{name: "rate limited retried once", status: http.StatusTooManyRequests, wantErr: common.ErrRateLimit, wantCalls: 2, wantTransient: true},
		{name: "client error not retried", status: http.StatusForbidden, wantErr: common.ErrGeocoderUnavailable, wantCalls: 1},
		{name: "garbage body not retried", status: http.StatusOK, body: `{`, wantErr: common.ErrGeocoderUnavailable, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewNominatimClient(srv.URL, "ua", time.Second, WithZoneFinder(fixedZones{zone: "UTC"}), fastRetry())
			_, err := c.Lookup(context.Background(), "Atlantis")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, calls.Load())
			assert.Equal(t, tt.wantTransient, common.IsRetryable(err))
		})
	}
}

func TestLatLongZones(t *testing.T) {
	zone, ok := LatLongZones{}.ZoneFor(35.6762, 139.6503)
	require.True(t, ok)
	assert.Equal(t, "Asia/Tokyo", zone)
}
