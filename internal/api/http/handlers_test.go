package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsagent/internal/planner"
	"github.com/GriffinCanCode/fsagent/internal/providers/filesystem"
	"github.com/GriffinCanCode/fsagent/internal/sandbox"
	"github.com/GriffinCanCode/fsagent/internal/service"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

type unconfiguredPlanner struct{}

func (unconfiguredPlanner) Plan(context.Context, string, []types.Tool) (types.ActionDescriptor, error) {
	return types.ActionDescriptor{}, planner.ErrNotConfigured
}

func setupRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root, err := sandbox.New(t.TempDir())
	require.NoError(t, err)

	registry := service.NewRegistry()
	require.NoError(t, registry.Register(filesystem.NewProvider(filesystem.NewOps(root, nil))))

	metrics := monitoring.NewMetrics()
	dispatcher := service.NewDispatcher(registry, service.DispatchConfig{}, nil, metrics)
	commander := service.NewCommander(unconfiguredPlanner{}, dispatcher, nil)

	router := gin.New()
	NewHandlers(dispatcher, commander, metrics, nil, Info{Version: "test", Root: root.Dir()}).Register(router)
	return router, root.Dir()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestRootAndHealth(t *testing.T) {
	router, dir := setupRouter(t)

	w, body := doJSON(t, router, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "test", body["version"])

	w, body = doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dir, body["root"])
	stats := body["service_registry"].(map[string]interface{})
	assert.Equal(t, float64(10), stats["total_tools"])
}

func TestListTools(t *testing.T) {
	router, _ := setupRouter(t)

	w, body := doJSON(t, router, "GET", "/tools", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["tools"], 10)

	_, body = doJSON(t, router, "GET", "/tools?category=filesystem", nil)
	assert.Len(t, body["tools"], 10)

	_, body = doJSON(t, router, "GET", "/tools?category=planner", nil)
	assert.Empty(t, body["tools"])
}

func TestDiscover(t *testing.T) {
	router, _ := setupRouter(t)

	w, body := doJSON(t, router, "POST", "/tools/discover", types.DiscoverRequest{Query: "read the file contents", Limit: 3})
	assert.Equal(t, http.StatusOK, w.Code)
	tools := body["tools"].([]interface{})
	require.NotEmpty(t, tools)
	assert.Equal(t, "read_file", tools[0].(map[string]interface{})["name"])

	w, body = doJSON(t, router, "POST", "/tools/discover", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])
}

func TestCallTool(t *testing.T) {
	router, dir := setupRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))

	w, body := doJSON(t, router, "POST", "/tools/call", types.CallRequest{
		Name:      "read_file",
		Arguments: map[string]interface{}{"path": "a.txt"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alpha", body["result"])

	w, body = doJSON(t, router, "POST", "/tools/call", types.CallRequest{
		Name:      "list_directory",
		Arguments: map[string]interface{}{},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	entries := body["result"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].(map[string]interface{})["name"])
}

func TestCallToolErrors(t *testing.T) {
	router, dir := setupRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))

	tests := []struct {
		name       string
		req        interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "path escape",
			req:        types.CallRequest{Name: "read_file", Arguments: map[string]interface{}{"path": "../outside.txt"}},
			wantStatus: http.StatusForbidden,
			wantCode:   "PATH_ESCAPE",
		},
		{
			name:       "unknown action",
			req:        types.CallRequest{Name: "format_disk"},
			wantStatus: http.StatusNotFound,
			wantCode:   "UNSUPPORTED_ACTION",
		},
		{
			name:       "missing file",
			req:        types.CallRequest{Name: "read_file", Arguments: map[string]interface{}{"path": "nope.txt"}},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "missing argument",
			req:        types.CallRequest{Name: "read_file", Arguments: map[string]interface{}{}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "MALFORMED_ARGUMENTS",
		},
		{
			name:       "existing destination",
			req:        types.CallRequest{Name: "copy_file", Arguments: map[string]interface{}{"src": "a.txt", "dst": "a2.txt", "overwrite": false}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no name",
			req:        map[string]interface{}{"arguments": map[string]interface{}{}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doJSON(t, router, "POST", "/tools/call", tt.req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
				assert.NotEmpty(t, body["message"])
			}
		})
	}

	w, body := doJSON(t, router, "POST", "/tools/call", types.CallRequest{
		Name:      "copy_file",
		Arguments: map[string]interface{}{"src": "a.txt", "dst": "a2.txt", "overwrite": false},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_EXISTS", body["code"])
}

func TestDispatch(t *testing.T) {
	router, _ := setupRouter(t)

	w, body := doJSON(t, router, "POST", "/dispatch", types.ActionDescriptor{
		Name:      "write_file",
		Arguments: map[string]interface{}{"path": "notes.txt", "content": "hi"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["summary"], "Created file at")
	assert.NotEmpty(t, body["call_id"])

	_, body = doJSON(t, router, "POST", "/dispatch", types.ActionDescriptor{Name: "rm_rf"})
	assert.Equal(t, "Unsupported action: rm_rf", body["summary"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "UNSUPPORTED_ACTION", body["code"])
}

func TestCommand(t *testing.T) {
	router, _ := setupRouter(t)

	w, body := doJSON(t, router, "POST", "/command", types.CommandRequest{Prompt: "list files"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GOOGLE_API_KEY not set. Add it to your .env or environment.", body["summary"])

	w, _ = doJSON(t, router, "POST", "/command", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsSummary(t *testing.T) {
	router, _ := setupRouter(t)

	doJSON(t, router, "POST", "/tools/call", types.CallRequest{Name: "list_directory"})

	w, body := doJSON(t, router, "GET", "/metrics/json", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["action_calls"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, StatusFor("PATH_ESCAPE"))
	assert.Equal(t, http.StatusNotFound, StatusFor("UNSUPPORTED_ACTION"))
	assert.Equal(t, http.StatusBadRequest, StatusFor("MALFORMED_ARGUMENTS"))
	assert.Equal(t, http.StatusConflict, StatusFor("ALREADY_EXISTS"))
	assert.Equal(t, http.StatusGatewayTimeout, StatusFor("TIMEOUT"))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("IO_ERROR"))
}
