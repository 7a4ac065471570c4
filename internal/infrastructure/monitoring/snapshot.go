package monitoring

import (
	"fmt"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// Snapshot is a JSON friendly digest of the registry
type Snapshot struct {
	Timestamp        time.Time                `json:"timestamp"`
	UptimeSeconds    float64                  `json:"uptime_seconds"`
	TotalRequests    int64                    `json:"total_requests"`
	ActionCalls      int64                    `json:"action_calls"`
	ActionErrors     int64                    `json:"action_errors"` // includes rejected calls
	ErrorRate        float64                  `json:"error_rate"`
	AverageLatencyMs float64                  `json:"average_latency_ms"`
	ActionsInFlight  int64                    `json:"actions_in_flight"`
	WSConnections    int64                    `json:"ws_connections"`
	PlannerCalls     int64                    `json:"planner_calls"`
	Actions          map[string]ActionSummary `json:"actions"`
}

// ActionSummary aggregates one action across statuses
type ActionSummary struct {
	Calls            int64   `json:"calls"`
	Errors           int64   `json:"errors"`
	AverageLatencyMs float64 `json:"average_latency_ms"`
}

// Snapshot gathers the registry and summarizes it
func (m *Metrics) Snapshot() (Snapshot, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return Snapshot{}, fmt.Errorf("gather metrics: %w", err)
	}

	snap := Snapshot{
		Timestamp: time.Now().UTC(),
		Actions:   make(map[string]ActionSummary),
	}
	var (
		durationSum   float64
		durationCount uint64
		failedCalls   int64
	)

	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch mf.GetName() {
			case "fsagent_uptime_seconds":
				snap.UptimeSeconds = metric.GetGauge().GetValue()
			case "fsagent_http_requests_total":
				snap.TotalRequests += int64(metric.GetCounter().GetValue())
			case "fsagent_action_calls_total":
				n := int64(metric.GetCounter().GetValue())
				snap.ActionCalls += n
				if label(metric, "status") == "error" {
					failedCalls += n
				}
				a := snap.Actions[label(metric, "action")]
				a.Calls += n
				snap.Actions[label(metric, "action")] = a
			case "fsagent_action_errors_total":
				n := int64(metric.GetCounter().GetValue())
				snap.ActionErrors += n
				// Unsupported names are folded into "unknown" and have no call series
				if name := label(metric, "action"); name != "unknown" {
					a := snap.Actions[name]
					a.Errors += n
					snap.Actions[name] = a
				}
			case "fsagent_action_duration_seconds":
				h := metric.GetHistogram()
				durationSum += h.GetSampleSum()
				durationCount += h.GetSampleCount()
				name := label(metric, "action")
				a := snap.Actions[name]
				if h.GetSampleCount() > 0 {
					a.AverageLatencyMs = h.GetSampleSum() / float64(h.GetSampleCount()) * 1000
				}
				snap.Actions[name] = a
			case "fsagent_actions_in_flight":
				snap.ActionsInFlight = int64(metric.GetGauge().GetValue())
			case "fsagent_ws_connections":
				snap.WSConnections = int64(metric.GetGauge().GetValue())
			case "fsagent_planner_calls_total":
				snap.PlannerCalls += int64(metric.GetCounter().GetValue())
			}
		}
	}

	if durationCount > 0 {
		snap.AverageLatencyMs = durationSum / float64(durationCount) * 1000
	}
	// Rejected calls never run, so the rate covers executed handlers only
	if snap.ActionCalls > 0 {
		snap.ErrorRate = float64(failedCalls) / float64(snap.ActionCalls)
	}
	return snap, nil
}

func label(metric *dto.Metric, name string) string {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
