// Package config provides 12-factor configuration management for fsagent.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables.
//
// Configuration Sections:
//   - Sandbox: the confinement root (FS_ROOT, defaults to the working directory)
//   - Transport: MCP transport selection and listen address
//   - Planner: Gemini model settings
//   - Dispatch: per-action deadline and concurrency bound
//   - Logging: log level, format and output
//   - RateLimit: per-IP rate limiting for the HTTP transport
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	root, _ := cfg.RootDir()
package config
