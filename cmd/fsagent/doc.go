// Package main is the fsagent command line.
//
// fsagent exposes a sandboxed set of filesystem actions to language-model
// agents. Every path an action touches is confined to a single root
// directory (FS_ROOT, or --root).
//
// Usage:
//
//	# MCP over stdio (default transport)
//	fsagent serve
//
//	# MCP over SSE plus the REST and WebSocket surfaces
//	fsagent serve --transport sse --port 8000
//
//	# Print the tool catalog
//	fsagent tools -o yaml
//
//	# Run one action directly
//	fsagent call list_directory --args '{"path":"."}'
//
//	# Plan and run a natural-language command (needs GOOGLE_API_KEY)
//	fsagent ask "show me the files in docs"
//
// Configuration comes from the environment, optionally seeded from a .env
// file in the working directory. Flags override both.
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main
