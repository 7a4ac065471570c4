package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsagent/internal/service"
	"github.com/GriffinCanCode/fsagent/internal/shared/id"
	"github.com/GriffinCanCode/fsagent/internal/shared/utils"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler manages WebSocket connections
type Handler struct {
	dispatcher *service.Dispatcher
	commander  *service.Commander
	metrics    *monitoring.Metrics
	logger     *logging.Logger
}

// NewHandler creates a new WebSocket handler. metrics may be nil.
func NewHandler(dispatcher *service.Dispatcher, commander *service.Commander, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		dispatcher: dispatcher,
		commander:  commander,
		metrics:    metrics,
		logger:     logger.Named("ws"),
	}
}

// session serializes writes to one connection
type session struct {
	id   id.SessionID
	conn *websocket.Conn
	mu   sync.Mutex
	h    *Handler
}

func (s *session) send(msgType string, data map[string]interface{}) {
	data["type"] = msgType
	data["timestamp"] = time.Now().Unix()

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(data); err != nil {
		s.h.logger.Debug("write failed", zap.String("session", s.id.String()), zap.Error(err))
		return
	}
	if s.h.metrics != nil {
		s.h.metrics.RecordWSMessage("out", msgType)
	}
}

func (s *session) sendError(reqID, code, message string) {
	s.send("error", map[string]interface{}{
		"id":      reqID,
		"code":    code,
		"message": message,
	})
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(utils.MaxMessageSize)

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	// In-flight requests are abandoned when the client goes away
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	s := &session{id: id.NewSessionID(), conn: conn, h: h}
	log := h.logger.With(zap.String("session", s.id.String()))
	log.Info("stream connected", zap.String("remote", c.ClientIP()))

	s.send("system", map[string]interface{}{
		"session_id": s.id.String(),
		"message":    "Connected to fsagent",
	})

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("read error", zap.Error(err))
			}
			break
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			s.sendError("", service.CodeInvalidRequest, "invalid message: "+err.Error())
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "ping":
			s.send("pong", map[string]interface{}{"id": msg.ID})
		case "call", "dispatch", "command":
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.handle(ctx, s, msg)
			}()
		default:
			s.sendError(msg.ID, service.CodeInvalidRequest, "unknown message type: "+msg.Type)
		}
	}

	cancel()
	log.Info("stream closed")
}

func (h *Handler) handle(ctx context.Context, s *session, msg types.WSMessage) {
	switch msg.Type {
	case "call":
		result, err := h.dispatcher.Call(ctx, msg.Name, msg.Arguments)
		if err != nil {
			s.sendError(msg.ID, service.ErrorCode(err), err.Error())
			return
		}
		s.send("result", map[string]interface{}{
			"id":     msg.ID,
			"name":   msg.Name,
			"result": result,
		})

	case "dispatch":
		out := h.dispatcher.Dispatch(ctx, types.ActionDescriptor{Name: msg.Name, Arguments: msg.Arguments})
		s.send("summary", summaryBody(msg.ID, out))

	case "command":
		if err := utils.ValidatePrompt(msg.Prompt); err != nil {
			s.sendError(msg.ID, service.CodeInvalidRequest, err.Error())
			return
		}
		out := h.commander.Execute(ctx, msg.Prompt)
		s.send("summary", summaryBody(msg.ID, out))
	}
}

func summaryBody(reqID string, out service.Outcome) map[string]interface{} {
	body := map[string]interface{}{
		"id":      reqID,
		"call_id": out.CallID.String(),
		"action":  out.Action,
		"summary": out.Summary,
		"success": out.Err == nil,
	}
	if out.Err != nil {
		body["code"] = service.ErrorCode(out.Err)
	}
	return body
}
