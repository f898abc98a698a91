package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledmod/logging"
	"github.com/matt-g-everett/ledmod/stream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(t *testing.T) (http.Handler, *stream.Engine) {
	reg := prometheus.NewRegistry()
	logger := logging.NewNop()
	engine := stream.NewEngine(stream.WithMetrics(stream.NewMetrics(reg)))
	require.NoError(t, engine.Register(stream.NewView("star", stream.State{
		Alpha:  1,
		Center: stream.Point{X: 3},
		Size:   stream.Point{X: 2, Y: 1},
		Colour: colorful.Color{R: 1},
	})))
	a := NewApi(engine, stream.NewPlayer(engine, logger), reg, "", logger)
	return a.Handler(), engine
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestGetViews(t *testing.T) {
	h, _ := newTestApi(t)

	rec, out := do(t, h, http.MethodGet, "/views", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", out["status"])

	views := out["data"].([]any)
	require.Len(t, views, 1)
	star := views[0].(map[string]any)
	assert.Equal(t, "star", star["name"])
	assert.Equal(t, "#ff0000", star["colour"])
	assert.Equal(t, 3.0, star["center"].(map[string]any)["x"])
}

func TestGetView(t *testing.T) {
	h, _ := newTestApi(t)

	rec, out := do(t, h, http.MethodGet, "/views/star", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, out["data"].(map[string]any)["alpha"])

	rec, out = do(t, h, http.MethodGet, "/views/moon", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", out["status"])
}

func TestPlay(t *testing.T) {
	h, engine := newTestApi(t)

	rec, out := do(t, h, http.MethodPost, "/views/star/play", `
kind: parallel
actions:
  - {kind: fade, to: 0.2, duration: 500ms}
  - {kind: move, x: 4, duration: 2s}
`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	data := out["data"].(map[string]any)
	assert.Equal(t, "2s", data["duration"])
	assert.Equal(t, 2000.0, data["durationMs"])
	assert.Equal(t, 2, engine.Active())
}

func TestPlayJSON(t *testing.T) {
	h, engine := newTestApi(t)

	rec, _ := do(t, h, http.MethodPost, "/views/star/play", `{"kind": "tint", "colour": "#0000ff", "duration": "1s"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	v, ok := engine.View("star")
	require.True(t, ok)
	assert.Equal(t, "#0000ff", v.Model().Colour.Hex())
}

func TestPlayErrors(t *testing.T) {
	h, engine := newTestApi(t)

	rec, _ := do(t, h, http.MethodPost, "/views/moon/play", `{kind: hide}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, out := do(t, h, http.MethodPost, "/views/star/play", `{kind: spin}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "unknown action kind")

	rec, _ = do(t, h, http.MethodPost, "/views/star/play", `kind: [`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, engine.Active())
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestApi(t)
	do(t, h, http.MethodPost, "/views/star/play", `{kind: fade, to: 0, duration: 1s}`)

	rec, _ := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledmod_animations_started_total 1")
}
