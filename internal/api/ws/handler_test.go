package ws

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsagent/internal/providers/filesystem"
	"github.com/GriffinCanCode/fsagent/internal/sandbox"
	"github.com/GriffinCanCode/fsagent/internal/service"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

type listPlanner struct{}

func (listPlanner) Plan(context.Context, string, []types.Tool) (types.ActionDescriptor, error) {
	return types.ActionDescriptor{Name: "list_directory", Arguments: map[string]interface{}{}}, nil
}

func dial(t *testing.T) (*websocket.Conn, string, *monitoring.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root, err := sandbox.New(t.TempDir())
	require.NoError(t, err)
	registry := service.NewRegistry()
	require.NoError(t, registry.Register(filesystem.NewProvider(filesystem.NewOps(root, nil))))

	metrics := monitoring.NewMetrics()
	dispatcher := service.NewDispatcher(registry, service.DispatchConfig{}, nil, metrics)
	handler := NewHandler(dispatcher, service.NewCommander(listPlanner{}, dispatcher, nil), metrics, nil)

	router := gin.New()
	router.GET("/stream", handler.HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/stream", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	welcome := read(t, conn)
	assert.Equal(t, "system", welcome["type"])
	assert.True(t, strings.HasPrefix(welcome["session_id"].(string), "sess_"))

	return conn, root.Dir(), metrics
}

func read(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestPing(t *testing.T) {
	conn, _, _ := dial(t)

	require.NoError(t, conn.WriteJSON(types.WSMessage{Type: "ping", ID: "p1"}))
	msg := read(t, conn)
	assert.Equal(t, "pong", msg["type"])
	assert.Equal(t, "p1", msg["id"])
}

func TestCall(t *testing.T) {
	conn, dir, metrics := dial(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))

	require.NoError(t, conn.WriteJSON(types.WSMessage{
		Type:      "call",
		ID:        "1",
		Name:      "read_file",
		Arguments: map[string]interface{}{"path": "a.txt"},
	}))
	msg := read(t, conn)
	assert.Equal(t, "result", msg["type"])
	assert.Equal(t, "1", msg["id"])
	assert.Equal(t, "alpha", msg["result"])

	assert.Equal(t, 1.0, wsConnections(t, metrics))
}

func wsConnections(t *testing.T, m *monitoring.Metrics) float64 {
	t.Helper()
	snap, err := m.Snapshot()
	require.NoError(t, err)
	return float64(snap.WSConnections)
}

func TestCallError(t *testing.T) {
	conn, _, _ := dial(t)

	require.NoError(t, conn.WriteJSON(types.WSMessage{
		Type:      "call",
		ID:        "2",
		Name:      "read_file",
		Arguments: map[string]interface{}{"path": "../../etc/passwd"},
	}))
	msg := read(t, conn)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "2", msg["id"])
	assert.Equal(t, "PATH_ESCAPE", msg["code"])
}

func TestDispatchAndCommand(t *testing.T) {
	conn, dir, _ := dial(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))

	require.NoError(t, conn.WriteJSON(types.WSMessage{Type: "dispatch", ID: "d", Name: "nope"}))
	msg := read(t, conn)
	assert.Equal(t, "summary", msg["type"])
	assert.Equal(t, "Unsupported action: nope", msg["summary"])
	assert.Equal(t, false, msg["success"])

	require.NoError(t, conn.WriteJSON(types.WSMessage{Type: "command", ID: "c", Prompt: "list files"}))
	msg = read(t, conn)
	assert.Equal(t, "summary", msg["type"])
	assert.Equal(t, "c", msg["id"])
	assert.Equal(t, "Found 1 item(s) in .: a.txt.", msg["summary"])
}

func TestUnknownAndInvalidMessages(t *testing.T) {
	conn, _, _ := dial(t)

	require.NoError(t, conn.WriteJSON(types.WSMessage{Type: "shutdown", ID: "x"}))
	msg := read(t, conn)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "INVALID_REQUEST", msg["code"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = read(t, conn)
	assert.Equal(t, "error", msg["type"])
	assert.Contains(t, msg["message"], "invalid message")
}
