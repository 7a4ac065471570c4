// Package http provides the REST handlers for the tool server.
//
// Endpoints:
//   - GET  /            service banner
//   - GET  /health      registry and planner status
//   - GET  /tools       catalog, optionally filtered by ?category=
//   - POST /tools/discover  keyword ranking of the catalog
//   - POST /tools/call      structured result or a typed {code, message} error
//   - POST /dispatch        summary of an action descriptor
//   - POST /command         natural-language command
//   - GET  /metrics/json    metrics digest
//
// Structured errors map to HTTP statuses through StatusFor.
package http
