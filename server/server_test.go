package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/QEStudios/ChartScaler/chart"
	"github.com/QEStudios/ChartScaler/config"
)

const testChart = `[Song]
{
  Name = "Test"
  Resolution = 192
}
[SyncTrack]
{
  0 = TS 4
  0 = B 120000
  1 = B 121000
}
[Events]
{
  0 = E "section Intro"
  1 = E "lyric la"
}
[ExpertSingle]
{
  10 = N 0 100
  11 = N 1 0
  12 = S 2 50
}
`

const rescaledChart = `[Song]
{
  Name = "Test"
  Resolution = 576
}
[SyncTrack]
{
  0 = TS 4
  0 = B 120000
  3 = B 121000
}
[Events]
{
  0 = E "section Intro"
  1 = E "lyric la"
}
[ExpertSingle]
{
  30 = N 0 300
  31 = N 1 0
  34 = S 2 150
}
`

func newTestServer(t *testing.T, mutate ...func(*config.Config)) (*Server, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	for _, m := range mutate {
		m(&cfg)
	}
	var logs bytes.Buffer
	return New(cfg, log.New(&logs, "", 0)), &logs
}

func do(t *testing.T, s *Server, method, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w.Result()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	resp := do(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", readBody(t, resp))
}

func TestRescale(t *testing.T) {
	s, logs := newTestServer(t)
	resp := do(t, s, http.MethodPost, "/rescale?factor=3", testChart)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, rescaledChart, readBody(t, resp))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	id := resp.Header.Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), id+" POST /rescale -> 200")
}

func TestRescaleBadFactor(t *testing.T) {
	tests := []string{"", "0", "-2", "abc", "4294967296"}

	s, _ := newTestServer(t)
	for _, factor := range tests {
		t.Run(factor, func(t *testing.T) {
			resp := do(t, s, http.MethodPost, "/rescale?factor="+factor, testChart)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), "factor must be")
		})
	}
}

func TestRescaleInvalidChart(t *testing.T) {
	s, logs := newTestServer(t)
	resp := do(t, s, http.MethodPost, "/rescale?factor=2", strings.Replace(testChart, "0 = B 120000", "0 = X 5", 1))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "line 9, column 7")
	assert.Contains(t, body, "[SyncTrack]")
	assert.Contains(t, logs.String(), "rejected chart")
}

func TestRescaleMissingResolution(t *testing.T) {
	s, _ := newTestServer(t)
	resp := do(t, s, http.MethodPost, "/rescale?factor=2", strings.Replace(testChart, "  Resolution = 192\n", "", 1))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), chart.ErrMissingResolution.Error())
}

func TestBodyLimit(t *testing.T) {
	s, _ := newTestServer(t, func(cfg *config.Config) { cfg.MaxBody = 64 })
	resp := do(t, s, http.MethodPost, "/rescale?factor=2", testChart)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestInspect(t *testing.T) {
	s, _ := newTestServer(t)
	resp := do(t, s, http.MethodPost, "/inspect", testChart)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary chart.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, "Test", summary.Name)
	assert.Equal(t, uint32(192), summary.Resolution)
	assert.Equal(t, 3, summary.SyncEvents)
	assert.Equal(t, []string{"Intro"}, summary.Sections)
	assert.Equal(t, []chart.TrackSummary{{Name: "ExpertSingle", Notes: 2, Specials: 1}}, summary.Tracks)
}

func TestMIDI(t *testing.T) {
	s, _ := newTestServer(t)

	resp := do(t, s, http.MethodPost, "/midi?track=ExpertSingle", testChart)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/midi", resp.Header.Get("Content-Type"))

	song, err := smf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Len(t, song.Tracks, 3)

	resp = do(t, s, http.MethodPost, "/midi?track=EasySingle", testChart)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, s, http.MethodPost, "/midi", testChart)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestIDIsReused(t *testing.T) {
	s, _ := newTestServer(t)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, id, w.Result().Header.Get(RequestIDHeader))

	// Anything that is not a UUID is replaced.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-an-id")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.NotEqual(t, "not-an-id", w.Result().Header.Get(RequestIDHeader))
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	resp := do(t, s, http.MethodGet, "/rescale?factor=2", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, func(cfg *config.Config) { cfg.AllowedOrigins = []string{"https://charts.example"} })

	req := httptest.NewRequest(http.MethodPost, "/inspect", strings.NewReader(testChart))
	req.Header.Set("Origin", "https://charts.example")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "https://charts.example", w.Result().Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/inspect", strings.NewReader(testChart))
	req.Header.Set("Origin", "https://elsewhere.example")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Result().Header.Get("Access-Control-Allow-Origin"))
}
