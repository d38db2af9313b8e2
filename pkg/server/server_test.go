package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbl3rd/bvg/pkg/cache"
	"github.com/tbl3rd/bvg/pkg/pipeline"
)

func newTestServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(c, logger), logger)
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestInfer(t *testing.T) {
	s := newTestServer(t, nil)

	// A width-4 population forming a clean descent chain: each vector
	// differs from the previous by one bit, matching percent 25.
	rec := postJSON(t, s, "/v1/genealogy", inferRequest{
		Percent: 25,
		Vectors: []string{"0000", "0001", "0011", "0111"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp inferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{1, 2, -1, 2}, resp.Parents)
	assert.Equal(t, 2, resp.Root)
	assert.NotEmpty(t, resp.RunID)
	assert.False(t, resp.Cached)
	assert.Equal(t, 4, resp.Stats.VectorCount)
}

func TestInferCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s := newTestServer(t, fc)

	req := inferRequest{
		Percent: 25,
		Vectors: []string{"0000", "0001", "0011", "0111"},
	}

	rec := postJSON(t, s, "/v1/genealogy", req)
	require.Equal(t, http.StatusOK, rec.Code)
	var first inferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.False(t, first.Cached)

	rec = postJSON(t, s, "/v1/genealogy", req)
	require.Equal(t, http.StatusOK, rec.Code)
	var second inferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Parents, second.Parents)
}

func TestInferGraph(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s, "/v1/genealogy/graph", inferRequest{
		Percent: 25,
		Vectors: []string{"0000", "0001", "0011", "0111"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var graph struct {
		Nodes []struct {
			ID   int  `json:"id"`
			Root bool `json:"root"`
		} `json:"nodes"`
		Edges []struct {
			Source int `json:"source"`
			Target int `json:"target"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &graph))
	assert.Len(t, graph.Nodes, 4)
	assert.Len(t, graph.Edges, 3)

	roots := 0
	for _, n := range graph.Nodes {
		if n.Root {
			roots++
			assert.Equal(t, 2, n.ID)
		}
	}
	assert.Equal(t, 1, roots)
}

func TestInferErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{
			name:   "empty vectors",
			body:   inferRequest{Percent: 20},
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "percent out of range",
			body:   inferRequest{Percent: 101, Vectors: []string{"01", "10"}},
			status: http.StatusBadRequest,
			code:   "INVALID_PERCENT",
		},
		{
			name:   "ragged line",
			body:   inferRequest{Percent: 20, Vectors: []string{"010", "10", "001"}},
			status: http.StatusUnprocessableEntity,
			code:   "BAD_LINE",
		},
		{
			name:   "two vectors cannot span",
			body:   inferRequest{Percent: 0, Vectors: []string{"00", "00"}},
			status: http.StatusUnprocessableEntity,
			code:   "SPAN_INCOMPLETE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, s, "/v1/genealogy", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, string(resp.Error.Code))
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestInferMalformedBody(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/genealogy", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
