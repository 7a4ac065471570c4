package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsagent/internal/service"
	"github.com/GriffinCanCode/fsagent/internal/shared/utils"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

// Info describes the running server
type Info struct {
	Version           string
	Root              string
	PlannerConfigured bool
}

// Handlers contains all HTTP handlers
type Handlers struct {
	dispatcher *service.Dispatcher
	commander  *service.Commander
	metrics    *monitoring.Metrics
	logger     *logging.Logger
	info       Info
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(
	dispatcher *service.Dispatcher,
	commander *service.Commander,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
	info Info,
) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		dispatcher: dispatcher,
		commander:  commander,
		metrics:    metrics,
		logger:     logger.Named("http"),
		info:       info,
	}
}

// Register mounts every route on the router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	router.GET("/tools", h.ListTools)
	router.POST("/tools/discover", h.Discover)
	router.POST("/tools/call", h.CallTool)

	router.POST("/dispatch", h.Dispatch)
	router.POST("/command", h.Command)

	router.GET("/metrics/json", h.MetricsSummary)
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "fsagent",
		"version": h.info.Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"root":             h.info.Root,
		"service_registry": h.dispatcher.Registry().Stats(),
		"planner":          gin.H{"configured": h.info.PlannerConfigured},
	})
}

// ListTools lists the catalog
func (h *Handlers) ListTools(c *gin.Context) {
	registry := h.dispatcher.Registry()

	categoryStr := c.Query("category")
	if categoryStr == "" {
		c.JSON(http.StatusOK, gin.H{
			"tools": registry.List(),
			"stats": registry.Stats(),
		})
		return
	}

	category := types.Category(categoryStr)
	var tools []types.Tool
	for _, svc := range registry.Services(&category) {
		tools = append(tools, svc.Tools...)
	}
	if tools == nil {
		tools = []types.Tool{}
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools, "category": category})
}

// Discover ranks tools against a free-text query
func (h *Handlers) Discover(c *gin.Context) {
	var req types.DiscoverRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := utils.ValidateMessage(req.Query); err != nil {
		abortInvalid(c, err)
		return
	}

	tools := h.dispatcher.Registry().Discover(req.Query, req.Limit)
	c.JSON(http.StatusOK, gin.H{
		"query": req.Query,
		"tools": tools,
	})
}

// CallTool executes one action and returns its structured result
func (h *Handlers) CallTool(c *gin.Context) {
	var req types.CallRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.dispatcher.Call(c.Request.Context(), req.Name, req.Arguments)
	if err != nil {
		h.logger.Debug("tool call failed", zap.String("tool", req.Name), zap.Error(err))
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":   req.Name,
		"result": result,
	})
}

// Dispatch executes an action descriptor and returns its summary. It
// answers 200 even when the action fails; the summary carries the failure.
func (h *Handlers) Dispatch(c *gin.Context) {
	var desc types.ActionDescriptor
	if !bindJSON(c, &desc) {
		return
	}

	out := h.dispatcher.Dispatch(c.Request.Context(), desc)
	c.JSON(http.StatusOK, outcomeBody(out))
}

// Command runs a natural-language command
func (h *Handlers) Command(c *gin.Context) {
	var req types.CommandRequest
	if !bindJSON(c, &req) {
		return
	}

	out := h.commander.Execute(c.Request.Context(), req.Prompt)
	c.JSON(http.StatusOK, outcomeBody(out))
}

// MetricsSummary returns a JSON digest of the Prometheus registry
func (h *Handlers) MetricsSummary(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Code: "UNAVAILABLE", Message: "metrics disabled"})
		return
	}
	snap, err := h.metrics.Snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: service.CodeExecution, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func outcomeBody(out service.Outcome) gin.H {
	body := gin.H{
		"call_id": out.CallID,
		"action":  out.Action,
		"summary": out.Summary,
		"success": out.Err == nil,
	}
	if out.Err != nil {
		body["code"] = service.ErrorCode(out.Err)
	}
	return body
}

// bindJSON decodes a size-capped body and reports failures as INVALID_REQUEST
func bindJSON(c *gin.Context, v interface{}) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxJSONSize)
	if err := c.ShouldBindJSON(v); err != nil {
		abortInvalid(c, err)
		return false
	}
	return true
}
