package resilience

import (
	"sync"
	"testing"
	"time"
)

func TestHealthGate_HealthyByDefault(t *testing.T) {
	g := NewHealthGate(DefaultHealthGateConfig())

	if !g.ShouldUse() {
		t.Error("expected ShouldUse true on a fresh gate")
	}
	if g.Status() != StatusHealthy {
		t.Errorf("expected healthy, got %s", g.Status())
	}
}

func TestHealthGate_DegradedBelowThreshold(t *testing.T) {
	g := NewHealthGate(HealthGateConfig{FailureThreshold: 3, Cooldown: time.Minute})

	g.RecordFailure()
	g.RecordFailure()

	if g.Status() != StatusDegraded {
		t.Errorf("expected degraded, got %s", g.Status())
	}
	if !g.ShouldUse() {
		t.Error("degraded gate should still allow calls")
	}
}

func TestHealthGate_DisablesAtThreshold(t *testing.T) {
	now := time.Now()
	g := NewHealthGate(HealthGateConfig{FailureThreshold: 3, Cooldown: 5 * time.Minute})
	g.nowFunc = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		g.RecordFailure()
	}

	if g.Status() != StatusDisabled {
		t.Errorf("expected disabled, got %s", g.Status())
	}
	if g.ShouldUse() {
		t.Error("disabled gate must reject calls")
	}
}

func TestHealthGate_CooldownElapsed_ResetsAndAllows(t *testing.T) {
	now := time.Now()
	g := NewHealthGate(HealthGateConfig{FailureThreshold: 2, Cooldown: 100 * time.Millisecond})
	g.nowFunc = func() time.Time { return now }

	g.RecordFailure()
	g.RecordFailure()
	if g.ShouldUse() {
		t.Fatal("expected gate disabled")
	}

	g.nowFunc = func() time.Time { return now.Add(200 * time.Millisecond) }

	if !g.ShouldUse() {
		t.Error("expected gate re-enabled after cooldown")
	}
	failures, _, _ := g.Counters()
	if failures != 0 {
		t.Errorf("expected failure count reset, got %d", failures)
	}
	if g.Status() != StatusHealthy {
		t.Errorf("expected healthy after cooldown, got %s", g.Status())
	}
}

func TestHealthGate_SuccessResets(t *testing.T) {
	g := NewHealthGate(HealthGateConfig{FailureThreshold: 2, Cooldown: time.Hour})

	g.RecordFailure()
	g.RecordFailure()
	g.RecordSuccess()

	if g.Status() != StatusHealthy {
		t.Errorf("expected healthy after success, got %s", g.Status())
	}
	if !g.ShouldUse() {
		t.Error("expected ShouldUse true after success")
	}
}

func TestHealthGate_ZeroConfigDefaults(t *testing.T) {
	g := NewHealthGate(HealthGateConfig{})
	if g.cfg.FailureThreshold != 3 {
		t.Errorf("expected default threshold 3, got %d", g.cfg.FailureThreshold)
	}
	if g.cfg.Cooldown != 300*time.Second {
		t.Errorf("expected default cooldown 300s, got %s", g.cfg.Cooldown)
	}
}

func TestHealthStatus_String(t *testing.T) {
	tests := []struct {
		status HealthStatus
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusDisabled, "disabled"},
		{HealthStatus(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("HealthStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestHealthGate_Concurrent(t *testing.T) {
	t.Parallel()
	g := NewHealthGate(HealthGateConfig{FailureThreshold: 1000, Cooldown: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.RecordFailure()
			g.RecordSuccess()
			_ = g.ShouldUse()
			_ = g.Status()
		}()
	}
	wg.Wait()
}
