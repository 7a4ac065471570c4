// Package logging wraps zap for the whole server.
//
// Production mode writes JSON lines; development mode writes colored
// console lines with stack traces from warn up. Output defaults to
// stderr: the stdio MCP transport owns stdout.
//
//	logger, err := logging.New(logging.Config{Level: "debug"})
//	log := logger.Named("dispatcher")
//	log.Info("action finished", zap.String("action", "read_file"))
package logging
