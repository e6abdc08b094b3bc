package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percona/percona-linked-lists/metrics"
)

func TestBuildServerAddr(t *testing.T) {
	t.Parallel()

	addr, err := buildServerAddr("2242")
	require.NoError(t, err)
	assert.Equal(t, "localhost:2242", addr)

	_, err = buildServerAddr("80")
	require.ErrorIs(t, err, errUnsupportedPortRange)

	_, err = buildServerAddr("http")
	require.Error(t, err)
}

func TestServer(t *testing.T) { //nolint:paralleltest
	reg := prometheus.NewRegistry()
	metrics.Init(reg)

	h := (&server{reg: reg}).Handler()

	t.Run("scenarios", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scenarios", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var res scenariosResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.True(t, res.Ok)
		assert.Len(t, res.Scenarios, 8)
	})

	t.Run("run", func(t *testing.T) {
		body := `{"include":["exclusive.lifo","shared.trident"],"size":50}`

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)

		var res runResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.True(t, res.Ok, res.Err)
		require.Len(t, res.Results, 2)
		assert.Equal(t, "exclusive.lifo", res.Results[0].Name)
		assert.Equal(t, int64(52), res.Results[0].Nodes)
		assert.Equal(t, "shared.trident", res.Results[1].Name)
	})

	t.Run("run nothing selected", func(t *testing.T) {
		body := `{"include":["nope.*"]}`

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(body)))

		var res runResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.False(t, res.Ok)
		assert.Equal(t, "no scenario selected", res.Err)
	})

	t.Run("run wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/run", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("run bad body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `percona_lists_nodes_allocated_total{list="exclusive"}`)
		assert.Contains(t, rec.Body.String(), `percona_lists_scenarios_total{result="ok"}`)
	})
}
