package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/four-pillars/internal/common"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		setup   func(v *viper.Viper, t *testing.T)
		check   func(t *testing.T, c *Config)
		name    string
		wantErr bool
	}{
		{
			name:  "defaults",
			setup: func(_ *viper.Viper, _ *testing.T) {},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, DefaultGeocoderURL, c.GeocoderURL)
				assert.Equal(t, DefaultGeocoderTimeout, c.GeocoderTimeout)
				assert.Equal(t, DefaultBatchWorkers, c.BatchWorkers)
				assert.False(t, c.Offline)
				assert.NotContains(t, c.DatabasePath, "~")
			},
		},
		{
			name: "viper values win",
			setup: func(v *viper.Viper, _ *testing.T) {
				v.Set("database.path", "/tmp/pillars.db")
				v.Set("geocoder.timeout", "3s")
				v.Set("geocoder.offline", true)
				v.Set("batch.workers", 8)
				v.Set("report.style", "dark")
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "/tmp/pillars.db", c.DatabasePath)
				assert.Equal(t, 3*time.Second, c.GeocoderTimeout)
				assert.True(t, c.Offline)
				assert.Equal(t, 8, c.BatchWorkers)
				assert.Equal(t, "dark", c.ReportStyle)
			},
		},
		{
			name: "environment fallback for geocoder",
			setup: func(_ *viper.Viper, t *testing.T) {
				t.Setenv("NOMINATIM_URL", "http://localhost:9999")
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "http://localhost:9999", c.GeocoderURL)
			},
		},
		{
			name: "zero workers rejected",
			setup: func(v *viper.Viper, _ *testing.T) {
				v.Set("batch.workers", 0)
			},
			wantErr: true,
		},
		{
			name: "unknown report style rejected",
			setup: func(v *viper.Viper, _ *testing.T) {
				v.Set("report.style", "neon")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			tt.setup(v, t)

			c, err := Load(v)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}
