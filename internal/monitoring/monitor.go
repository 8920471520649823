// Package monitoring accumulates in-process health and usage metrics exposed
// by the read-only agent endpoints.
package monitoring

import (
	"math"
	"sync"
	"time"
)

// HealthSnapshot is a point-in-time view of pipeline and rewrite health.
type HealthSnapshot struct {
	Status                string      `json:"status"`
	LLMRequestsTotal      int         `json:"llm_requests_total"`
	LLMFailuresTotal      int         `json:"llm_failures_total"`
	AvgLatencyMS          float64     `json:"avg_latency_ms"`
	PipelineRequestsTotal int         `json:"pipeline_requests_total"`
	LastFailure           LastFailure `json:"last_failure"`
}

// LastFailure records the most recent rewrite failure.
type LastFailure struct {
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// degradedFailureCount is the failure total past which the snapshot reports
// a degraded status.
const degradedFailureCount = 5

// Monitor counts pipeline requests and rewrite outcomes.
type Monitor struct {
	mu sync.Mutex

	llmRequests      int
	llmFailures      int
	pipelineRequests int
	totalLatencyMS   float64
	lastFailure      LastFailure

	nowFunc func() time.Time
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{nowFunc: time.Now}
}

// RecordRequest counts an incoming pipeline request.
func (m *Monitor) RecordRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelineRequests++
}

// RecordLLMSuccess counts a successful rewrite call and its latency.
func (m *Monitor) RecordLLMSuccess(latencyMS float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.llmRequests++
	m.totalLatencyMS += latencyMS
}

// RecordLLMFailure counts a failed rewrite call with its reason.
func (m *Monitor) RecordLLMFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.llmFailures++
	m.lastFailure = LastFailure{
		Reason:    reason,
		Timestamp: m.nowFunc().UTC().Format(time.RFC3339),
	}
}

// Snapshot returns the current health view.
func (m *Monitor) Snapshot() HealthSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	avg := 0.0
	if m.llmRequests > 0 {
		avg = math.Round(m.totalLatencyMS/float64(m.llmRequests)*100) / 100
	}

	status := "healthy"
	if m.llmFailures > degradedFailureCount {
		status = "degraded"
	}

	return HealthSnapshot{
		Status:                status,
		LLMRequestsTotal:      m.llmRequests,
		LLMFailuresTotal:      m.llmFailures,
		AvgLatencyMS:          avg,
		PipelineRequestsTotal: m.pipelineRequests,
		LastFailure:           m.lastFailure,
	}
}
