// Package middleware provides the gin middleware stack for the REST API.
//
//   - CORS: cross-origin access via gin-contrib/cors
//   - RateLimit: per-IP token buckets with idle client eviction
//   - RequestID: X-Request-ID propagation, generated with google/uuid
//   - Deadline: a per-request context deadline
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS([]string{"*"}))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
