// Package ws provides the WebSocket stream for tool calls and commands.
//
// Each connection is a session. Requests are handled concurrently and
// correlated by their id; replies may arrive in any order.
//
// Message Types (Client → Server):
//   - call: execute {name, arguments}, reply with the structured result
//   - dispatch: execute {name, arguments}, reply with a summary
//   - command: run a natural-language {prompt}
//   - ping: keep-alive
//
// Message Types (Server → Client):
//   - system: sent once after connecting, carries the session ID
//   - result: structured call result
//   - summary: dispatch or command summary
//   - error: {code, message}
//   - pong: keep-alive reply
//
// Example Usage:
//
//	handler := ws.NewHandler(dispatcher, commander, metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
