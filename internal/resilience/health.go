// Package resilience gates external rewrite calls behind a failure-aware
// health state so a flaky provider cannot drag every request through a
// timeout.
package resilience

import (
	"sync"
	"time"
)

// HealthStatus describes the gate's current state.
type HealthStatus int

const (
	// StatusHealthy means no recent failures.
	StatusHealthy HealthStatus = iota
	// StatusDegraded means failures were recorded but calls still flow.
	StatusDegraded
	// StatusDisabled means the gate is within its cooldown window and
	// rejects calls.
	StatusDisabled
)

func (s HealthStatus) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// HealthGateConfig controls gate behavior.
type HealthGateConfig struct {
	// FailureThreshold is the number of consecutive failures before the
	// gate disables calls. Default: 3.
	FailureThreshold int

	// Cooldown is how long calls stay disabled once the threshold is hit.
	// Default: 300s.
	Cooldown time.Duration
}

// DefaultHealthGateConfig returns the defaults.
func DefaultHealthGateConfig() HealthGateConfig {
	return HealthGateConfig{
		FailureThreshold: 3,
		Cooldown:         300 * time.Second,
	}
}

// HealthGate tracks consecutive failures of the external rewrite call and
// disables it for a cooldown window when the threshold is reached. Once the
// cooldown elapses the failure count resets and calls flow again.
type HealthGate struct {
	cfg HealthGateConfig

	mu            sync.Mutex
	lastSuccess   time.Time
	lastFailure   time.Time
	failures      int
	disabledUntil time.Time

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewHealthGate creates a gate with the given config.
func NewHealthGate(cfg HealthGateConfig) *HealthGate {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 300 * time.Second
	}
	return &HealthGate{
		cfg:     cfg,
		nowFunc: time.Now,
	}
}

// ShouldUse reports whether the external call may proceed. When a cooldown
// window has elapsed it resets the failure count and clears the disabled
// marker before returning true.
func (g *HealthGate) ShouldUse() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.nowFunc()
	if !g.disabledUntil.IsZero() {
		if now.Before(g.disabledUntil) {
			return false
		}
		// Cooldown elapsed; re-enable.
		g.disabledUntil = time.Time{}
		g.failures = 0
	}
	return true
}

// RecordSuccess fully resets the gate.
func (g *HealthGate) RecordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastSuccess = g.nowFunc()
	g.failures = 0
	g.disabledUntil = time.Time{}
}

// RecordFailure increments the consecutive-failure counter and starts the
// cooldown once the threshold is reached.
func (g *HealthGate) RecordFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.nowFunc()
	g.lastFailure = now
	g.failures++
	if g.failures >= g.cfg.FailureThreshold {
		g.disabledUntil = now.Add(g.cfg.Cooldown)
	}
}

// Status returns the current health status.
func (g *HealthGate) Status() HealthStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.disabledUntil.IsZero() && g.nowFunc().Before(g.disabledUntil) {
		return StatusDisabled
	}
	if g.failures > 0 {
		return StatusDegraded
	}
	return StatusHealthy
}

// Counters returns the consecutive failure count and last success/failure
// times for observability.
func (g *HealthGate) Counters() (failures int, lastSuccess, lastFailure time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failures, g.lastSuccess, g.lastFailure
}
