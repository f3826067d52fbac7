package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/testutil"
)

type fakeGeocoder struct {
	places map[string]model.Location
	err    error
	mu     sync.Mutex
	calls  int
}

func (f *fakeGeocoder) Lookup(_ context.Context, place string) (*model.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	loc, ok := f.places[place]
	if !ok {
		return nil, common.ErrLocationNotFound
	}
	return &loc, nil
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{places: map[string]model.Location{
		"Tokyo": {
			Name: "tokyo", DisplayName: "Tokyo, Japan", Source: model.SourceBuiltin,
			Latitude: 35.6762, Longitude: 139.6503, Timezone: "Asia/Tokyo",
		},
		"Atlantis": {
			Name: "atlantis", Source: model.SourceNominatim,
			Latitude: 0, Longitude: 0, Timezone: "", TimezoneFallback: true,
		},
	}}
}

func TestClassifyChartEndToEnd(t *testing.T) {
	chart, err := model.ParseChart("甲子", "乙丑", "丙寅", "丁卯")
	require.NoError(t, err)

	result, err := ClassifyChart(chart)
	require.NoError(t, err)

	assert.Equal(t, 12, result.Matrix.Totals.Total())
	assert.Equal(t, model.Dense, result.Constitution.Gate)
	assert.Contains(t, model.CandidatesFor(model.Dense), result.Constitution.Type)
	assert.Equal(t, model.Hepatonia, result.Constitution.Type)
	assert.Equal(t, model.Cholecystonia, result.Constitution.Sibling)
	assert.Equal(t, model.Pulmonotonia, result.Constitution.Opposite)
	assert.Equal(t, "Inhalation", result.Constitution.Respiration)
	assert.True(t, result.Audit.CanonicalFlowIntegrity)
	assert.True(t, result.Audit.PolarityValidation)
	assert.True(t, result.Audit.ElementalCoherence)
	assert.InDelta(t, 0.92, result.Confidence.Total, 1e-9)
	assert.Len(t, result.Stations, 5)
	assert.Len(t, result.Candidates, 4)
	require.NotNil(t, result.TieBreak)
	assert.Equal(t, "bilateral-root", result.TieBreak.Rule)
	assert.Equal(t, "Year", result.Pillars[0].Slot.String())
	assert.Equal(t, "Rat", result.Pillars[0].Branch.Animal)
	assert.Equal(t, CaseID(chart), result.CaseID)
}

func TestClassifyChartFixtures(t *testing.T) {
	for _, fixture := range []testutil.ChartFixture{testutil.WoodHeavy, testutil.AllWood} {
		t.Run(fixture.Name, func(t *testing.T) {
			result, err := ClassifyChart(fixture.Chart(t))
			require.NoError(t, err)

			assert.Equal(t, fixture.Constitution, result.Constitution.Type)
			assert.Equal(t, fixture.Gate, result.Constitution.Gate)
			assert.Equal(t, fixture.Total, result.Matrix.Totals.Total())
			assert.InDelta(t, fixture.Confidence, result.Confidence.Total, 1e-9)
			if fixture.Rule != "" {
				require.NotNil(t, result.TieBreak)
				assert.Equal(t, fixture.Rule, result.TieBreak.Rule)
			}
		})
	}
}

func TestClassifyChartIsDeterministic(t *testing.T) {
	chart, err := model.ParseChart("癸亥", "乙卯", "丁巳", "丙午")
	require.NoError(t, err)

	first, err := ClassifyChart(chart)
	require.NoError(t, err)
	second, err := ClassifyChart(chart)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	if diff := cmp.Diff(string(a), string(b)); diff != "" {
		t.Fatalf("classification output changed between runs (-first +second):\n%s", diff)
	}
}

func TestClassify(t *testing.T) {
	geo := newFakeGeocoder()
	e := New(geo)

	rec := model.BirthRecord{Name: "Ada", Date: "1990-05-17", Time: "08:45", Place: "Tokyo"}
	result, err := e.Classify(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, "Ada", result.Name)
	require.NotNil(t, result.Location)
	assert.Equal(t, "Asia/Tokyo", result.Location.Timezone)
	require.NotNil(t, result.Time)
	assert.Equal(t, "09:04", result.Time.SolarTime)
	assert.False(t, result.Time.IsDST)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, result.Constitution.Gate, result.Constitution.Type.Gate())

	again, err := e.Classify(context.Background(), rec)
	require.NoError(t, err)
	a, _ := json.Marshal(result)
	b, _ := json.Marshal(again)
	assert.Empty(t, cmp.Diff(string(a), string(b)))
}

func TestClassifyWarnsOnTimezoneFallback(t *testing.T) {
	e := New(newFakeGeocoder())
	result, err := e.Classify(context.Background(), model.BirthRecord{Date: "2000-06-01", Time: "12:00", Place: "Atlantis"})
	require.NoError(t, err)

	assert.True(t, result.Time.TimezoneFallback)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "timezone resolution failed")
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name     string
		geocoder *fakeGeocoder
		rec      model.BirthRecord
		wantIs   error
		wantUser bool
	}{
		{
			name:     "unknown place",
			geocoder: newFakeGeocoder(),
			rec:      model.BirthRecord{Date: "1990-05-17", Time: "08:45", Place: "Nowhere"},
			wantIs:   common.ErrLocationNotFound,
			wantUser: true,
		},
		{
			name:     "empty place",
			geocoder: newFakeGeocoder(),
			rec:      model.BirthRecord{Date: "1990-05-17", Time: "08:45"},
			wantIs:   common.ErrLocationNotFound,
			wantUser: true,
		},
		{
			name:     "malformed date",
			geocoder: newFakeGeocoder(),
			rec:      model.BirthRecord{Date: "1990-17-05", Time: "08:45", Place: "Tokyo"},
			wantIs:   common.ErrInvalidDate,
			wantUser: true,
		},
		{
			name:     "geocoder outage",
			geocoder: &fakeGeocoder{err: common.ErrGeocoderUnavailable},
			rec:      model.BirthRecord{Date: "1990-05-17", Time: "08:45", Place: "Tokyo"},
			wantIs:   common.ErrGeocoderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.geocoder).Classify(context.Background(), tt.rec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantIs), err)
			assert.Equal(t, tt.wantUser, common.IsUserError(err))
		})
	}
}

func TestClassifySkipsGeocoderForManualLocation(t *testing.T) {
	geo := newFakeGeocoder()
	rec := model.BirthRecord{
		Date: "1990-05-17", Time: "08:45",
		Location: &model.Location{Name: "lab", Longitude: 135, Timezone: "Asia/Tokyo"},
	}
	result, err := New(geo).Classify(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, 0, geo.calls)
	assert.Equal(t, model.SourceManual, result.Location.Source)
	assert.Equal(t, "08:45", result.Time.SolarTime)
}

func TestClassifyRecordsHistory(t *testing.T) {
	store := testutil.SetupTestDB(t)

	e := New(newFakeGeocoder(), WithHistory(store))
	result, err := e.Classify(context.Background(), model.BirthRecord{Name: "Ada", Date: "1990-05-17", Time: "08:45", Place: "Tokyo"})
	require.NoError(t, err)

	saved, err := store.GetResult(context.Background(), result.CaseID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", saved.Name)
	assert.Equal(t, result.Constitution.Type.String(), saved.Constitution)

	// Five minutes later falls in the same double hour, so the chart is shared.
	other, err := e.Classify(context.Background(), model.BirthRecord{Name: "Bob", Date: "1990-05-17", Time: "08:50", Place: "Tokyo"})
	require.NoError(t, err)
	require.Equal(t, result.CaseID, other.CaseID)

	history, err := store.ListResults(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.ElementsMatch(t, []string{"Ada", "Bob"}, []string{history[0].Name, history[1].Name})
	assert.NotEqual(t, history[0].ID, history[1].ID)
}
