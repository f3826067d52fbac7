package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/four-pillars/internal/certs"
	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/engine"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/storage"
	"github.com/Veraticus/four-pillars/internal/testutil"
)

type placeGeocoder map[string]model.Location

func (g placeGeocoder) Lookup(_ context.Context, place string) (*model.Location, error) {
	loc, ok := g[strings.ToLower(place)]
	if !ok {
		return nil, common.ErrLocationNotFound
	}
	return &loc, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *storage.SQLiteStorage) {
	t.Helper()
	store := testutil.SetupTestDB(t)

	geocoder := placeGeocoder{
		"greenwich": {Name: "Greenwich", Latitude: 51.4769, Longitude: 0, Timezone: "UTC", Source: model.SourceBuiltin},
	}
	eng := engine.New(geocoder, engine.WithHistory(store))

	srv := httptest.NewServer(New(eng, store, "test"))
	t.Cleanup(srv.Close)
	return srv, store
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestHealthOverTLS(t *testing.T) {
	tlsConfig, err := certs.NewFileManager(t.TempDir()).TLSConfig()
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(New(engine.New(nil), nil, "test"))
	srv.TLS = tlsConfig
	srv.StartTLS()
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClassify(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := post(t, srv.URL+"/api/classify",
		`{"name":"Ada","date":"2000-01-01","time":"12:00","place":"Greenwich"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Ada", body["name"])
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	pillars := body["pillars"].([]any)
	require.Len(t, pillars, 4)
	assert.Equal(t, "己卯", pillars[0].(map[string]any)["glyphs"])
	assert.Equal(t, "戊午", pillars[2].(map[string]any)["glyphs"])
}

func TestClassifyErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "unknown field", body: `{"birthday":"x"}`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "unknown place", body: `{"date":"2000-01-01","time":"12:00","place":"Atlantis"}`, wantStatus: http.StatusUnprocessableEntity, wantError: "try a clearer place name"},
		{name: "bad date", body: `{"date":"2000-13-01","time":"12:00","place":"Greenwich"}`, wantStatus: http.StatusUnprocessableEntity, wantError: "YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, srv.URL+"/api/classify", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, body["error"], tt.wantError)
		})
	}
}

func TestChart(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := post(t, srv.URL+"/api/chart", `{"year":"甲子","month":"乙丑","day":"丙寅","hour":"丁卯"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	constitution := body["constitution"].(map[string]any)
	assert.Equal(t, "Hepatonia", constitution["type"])
	assert.InDelta(t, 0.92, body["confidence"].(map[string]any)["total"], 1e-9)

	resp, body = post(t, srv.URL+"/api/chart", `{"year":"甲子","month":"乙丑","day":"XX","hour":"丁卯"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["error"], "Day pillar")
}

func TestResults(t *testing.T) {
	srv, _ := newTestServer(t)

	_, classified := post(t, srv.URL+"/api/classify",
		`{"name":"Ada","date":"2000-01-01","time":"12:00","place":"Greenwich"}`)
	caseID := classified["case_id"].(string)

	resp, err := http.Get(srv.URL + "/api/results?limit=10")
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	_ = resp.Body.Close()
	require.Len(t, list, 1)
	assert.Equal(t, caseID, list[0]["case_id"])
	assert.Equal(t, "己卯 丙子 戊午 戊午", list[0]["chart"])
	recordID, ok := list[0]["id"].(string)
	require.True(t, ok)
	assert.NotEqual(t, caseID, recordID)

	resp, err = http.Get(srv.URL + "/api/results/" + recordID)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/results/" + caseID)
	require.NoError(t, err)
	var stored map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stored))
	_ = resp.Body.Close()
	assert.Equal(t, caseID, stored["case_id"])

	resp, err = http.Get(srv.URL + "/api/results/nope")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/results?limit=-1")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, statusFor(common.ErrGeocoderUnavailable))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(common.ErrOfflineLookup))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
