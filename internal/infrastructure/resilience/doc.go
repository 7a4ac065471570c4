// Package resilience holds the circuit breaker that guards planner calls.
//
// After ReadyToTrip says so, the breaker opens and fails calls fast with
// ErrCircuitOpen until Timeout passes. It then admits MaxRequests trial
// calls while half-open; a success closes it again and a failure reopens it.
// Cancelled or expired contexts do not count as failures.
//
//	text, err := resilience.Do(ctx, breaker, func(ctx context.Context) (string, error) {
//		return client.Generate(ctx, system, prompt)
//	})
package resilience
