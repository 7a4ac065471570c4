package mcpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/service"
)

const instructions = `This server exposes filesystem tools confined to a single root directory (FS_ROOT).
Paths are relative to that root; paths that escape it are rejected.
write_file appends when the file already exists.
nl_command accepts a plain-language request and runs the matching tool.`

// Server adapts the dispatcher to an MCP server
type Server struct {
	dispatcher *service.Dispatcher
	commander  *service.Commander
	logger     *logging.Logger
	mcp        *mcp.Server
}

// New creates the MCP server and registers every catalog action.
// commander may be nil, in which case nl_command is not offered.
func New(dispatcher *service.Dispatcher, commander *service.Commander, logger *logging.Logger, version string) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		dispatcher: dispatcher,
		commander:  commander,
		logger:     logger.Named("mcp"),
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "fsagent",
			Title:   "Sandboxed filesystem tools",
			Version: version,
		}, &mcp.ServerOptions{Instructions: instructions}),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying SDK server
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// ServeStdio serves one session over stdin/stdout until ctx ends or the client disconnects
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// SSEHandler serves the SSE transport
func (s *Server) SSEHandler() http.Handler {
	return mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
}

// StreamableHandler serves the streamable HTTP transport
func (s *Server) StreamableHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
}

func (s *Server) call(ctx context.Context, name string, args map[string]interface{}) *mcp.CallToolResult {
	result, err := s.dispatcher.Call(ctx, name, args)
	if err != nil {
		code := service.ErrorCode(err)
		s.logger.Debug("tool error", zap.String("tool", name), zap.String("code", code), zap.Error(err))
		return &mcp.CallToolResult{
			Meta:    mcp.Meta{"code": code},
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			IsError: true,
		}
	}
	return textResult(service.Summarize(result))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

// toArgs converts a typed parameter struct to dispatcher arguments.
// Unset optional fields are dropped by omitempty.
func toArgs(params interface{}) (map[string]interface{}, error) {
	data, err := sonic.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}
	args := make(map[string]interface{})
	if err := sonic.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return args, nil
}
