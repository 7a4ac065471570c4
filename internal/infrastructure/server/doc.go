// Package server wires the components together and serves them.
//
// NewServer builds the sandbox root, the filesystem provider, the registry,
// the dispatcher, the planner and every transport. Run then serves one of:
//
//   - stdio: MCP framing on stdin/stdout
//   - sse:   MCP at /sse plus the REST API, /stream and /metrics
//   - http:  MCP at /mcp plus the REST API, /stream and /metrics
//
// REST responses are gzip compressed; the MCP and WebSocket endpoints are not.
// The listener is capped with netutil.LimitListener and shuts down gracefully
// when the context passed to Run is cancelled.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, logger, version)
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.Run(ctx)
package server
