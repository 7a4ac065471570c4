// Package monitoring owns the Prometheus metrics of one server.
//
// Each Metrics value has its own registry, so tests and multiple servers
// can share a process. It covers HTTP requests, action calls with their
// error codes, planner calls, WebSocket sessions and uptime. Snapshot
// condenses the registry into the JSON served at /metrics/json.
//
//	metrics := monitoring.NewMetrics()
//	router.Use(monitoring.Middleware(metrics))
//
//	timer := monitoring.NewTimer(metrics, "read_file")
//	defer timer.Stop("success")
package monitoring
