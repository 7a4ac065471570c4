// Package mcpserver exposes the action catalog as Model Context Protocol tools.
//
// Each filesystem action is registered with a typed parameter struct so the
// SDK can publish a JSON schema. Arguments are converted back to the generic
// map form and executed through the same Dispatcher the REST and WebSocket
// transports use. The nl_command tool runs the planner round trip.
package mcpserver
