package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/mnemo/pkg/config"
	"github.com/soundprediction/mnemo/pkg/server/dto"
	"github.com/soundprediction/mnemo/pkg/types"
)

// stubMemory records calls and returns canned data.
type stubMemory struct {
	addResult  *types.AddResult
	triples    []types.Triple
	err        error
	pingErr    error
	lastTenant string
	pinged     bool
	deleted    bool
}

func (s *stubMemory) Add(ctx context.Context, text, tenantID string) (*types.AddResult, error) {
	s.lastTenant = tenantID
	if s.err != nil {
		return nil, s.err
	}
	return s.addResult, nil
}

func (s *stubMemory) Search(ctx context.Context, query, tenantID string, limit int) ([]types.Triple, error) {
	s.lastTenant = tenantID
	return s.triples, s.err
}

func (s *stubMemory) GetAll(ctx context.Context, tenantID string, limit int) ([]types.Triple, error) {
	s.lastTenant = tenantID
	return s.triples, s.err
}

func (s *stubMemory) DeleteAll(ctx context.Context, tenantID string) error {
	s.lastTenant = tenantID
	s.deleted = true
	return s.err
}

func (s *stubMemory) Ping(ctx context.Context) error {
	s.pinged = true
	return s.pingErr
}

func (s *stubMemory) Close(ctx context.Context) error { return nil }

func newTestServer(memory *stubMemory) *Server {
	gin.SetMode(gin.TestMode)
	srv := New(&config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 0, Mode: gin.TestMode},
	}, memory)
	srv.Setup()
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestAddMemory(t *testing.T) {
	memory := &stubMemory{addResult: &types.AddResult{
		AddedTriples: []types.Triple{
			{Source: "alice", Relationship: "works_at", Destination: "acme"},
		},
	}}
	srv := newTestServer(memory)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/memories", dto.AddMemoryRequest{
		TenantID: "t1",
		Text:     "Alice works at Acme",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t1", memory.lastTenant)

	var resp dto.AddMemoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.AddedEntities, 1)
	assert.Equal(t, "works_at", resp.AddedEntities[0].Relationship)
	assert.NotNil(t, resp.DeletedEntities)
}

func TestAddMemoryValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.AddMemoryRequest
	}{
		{"missing tenant", dto.AddMemoryRequest{Text: "some text"}},
		{"missing text", dto.AddMemoryRequest{TenantID: "t1"}},
		{"blank tenant", dto.AddMemoryRequest{TenantID: "   ", Text: "some text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubMemory{})
			w := doJSON(t, srv, http.MethodPost, "/api/v1/memories", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAddMemoryEngineError(t *testing.T) {
	srv := newTestServer(&stubMemory{err: errors.New("store unavailable")})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/memories", dto.AddMemoryRequest{
		TenantID: "t1",
		Text:     "text",
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ingest_failed", resp.Error)
}

func TestSearch(t *testing.T) {
	memory := &stubMemory{triples: []types.Triple{
		{Source: "alice", Relationship: "works_at", Destination: "acme"},
		{Source: "alice", Relationship: "loves", Destination: "hiking"},
	}}
	srv := newTestServer(memory)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/search", dto.SearchRequest{
		TenantID: "t1",
		Query:    "where does alice work",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "acme", resp.Results[0].Destination)
}

func TestSearchEmptyResultsIsNotNull(t *testing.T) {
	srv := newTestServer(&stubMemory{})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/search", dto.SearchRequest{
		TenantID: "t1",
		Query:    "anything",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"results":[]`)
}

func TestGetAll(t *testing.T) {
	memory := &stubMemory{triples: []types.Triple{
		{Source: "alice", Relationship: "works_at", Destination: "acme"},
	}}
	srv := newTestServer(memory)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/memories/tenant-a", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tenant-a", memory.lastTenant)

	var resp dto.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestGetAllRejectsBadLimit(t *testing.T) {
	srv := newTestServer(&stubMemory{})

	w := doJSON(t, srv, http.MethodGet, "/api/v1/memories/tenant-a?limit=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/memories/tenant-a?limit=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteAll(t *testing.T) {
	memory := &stubMemory{}
	srv := newTestServer(memory)

	w := doJSON(t, srv, http.MethodDelete, "/api/v1/memories/tenant-a", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, memory.deleted)
	assert.Equal(t, "tenant-a", memory.lastTenant)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(&stubMemory{})

	for _, path := range []string{"/health", "/live", "/ready"} {
		w := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestReadinessPingsStore(t *testing.T) {
	memory := &stubMemory{}
	srv := newTestServer(memory)

	w := doJSON(t, srv, http.MethodGet, "/ready", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, memory.pinged)
	// The probe must not fabricate tenant state to prove connectivity.
	assert.Empty(t, memory.lastTenant)
}

func TestReadinessReportsStoreFailure(t *testing.T) {
	memory := &stubMemory{pingErr: errors.New("connection refused")}
	srv := newTestServer(memory)

	w := doJSON(t, srv, http.MethodGet, "/ready", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&stubMemory{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
