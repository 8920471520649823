package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arjun-mehta/portfolio-agent/internal/engine"
	"github.com/arjun-mehta/portfolio-agent/internal/monitoring"
	"github.com/arjun-mehta/portfolio-agent/internal/profile"
	"github.com/arjun-mehta/portfolio-agent/internal/resilience"
	"github.com/arjun-mehta/portfolio-agent/internal/store"
	"github.com/arjun-mehta/portfolio-agent/pkg/llm"
)

// appEnv holds the wired pipeline and its shared collaborators.
type appEnv struct {
	Profile   *profile.Snapshot
	Engine    *engine.Engine
	Monitor   *monitoring.Monitor
	Analytics *monitoring.Analytics
	Gate      *resilience.HealthGate
	Store     store.Store
}

// initApp loads the profile, opens the interaction store, and wires the
// engine from config. storeDriver overrides cfg.Store.Driver when non-empty.
func initApp(ctx context.Context, storeDriver string) (*appEnv, error) {
	snap, err := profile.Load(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}

	rewriter, err := llm.New(ctx, cfg.LLM.Provider, cfg.LLM.Key, cfg.LLM.Model)
	if err != nil {
		return nil, err
	}
	if rewriter == nil {
		zap.L().Warn("no llm key configured, polish stage will report missing_key")
	}

	driver := cfg.Store.Driver
	if storeDriver != "" {
		driver = storeDriver
	}
	st, err := store.Open(ctx, driver, cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	gate := resilience.NewHealthGate(resilience.HealthGateConfig{
		FailureThreshold: cfg.LLM.FailureThreshold,
		Cooldown:         time.Duration(cfg.LLM.CooldownSecs) * time.Second,
	})
	monitor := monitoring.NewMonitor()
	analytics := monitoring.NewAnalytics()

	polisher := engine.NewPolisher(rewriter, gate, monitor,
		time.Duration(cfg.LLM.TimeoutSecs)*time.Second)

	eng := engine.New(engine.Options{
		Profile:         snap,
		Polisher:        polisher,
		Analytics:       analytics,
		Monitor:         monitor,
		Store:           st,
		IntentThreshold: cfg.Engine.IntentThreshold,
		LatencyGuard:    time.Duration(cfg.Engine.LatencyGuardMS) * time.Millisecond,
		LongAnswerChars: cfg.LLM.LongAnswerChars,
	})

	return &appEnv{
		Profile:   snap,
		Engine:    eng,
		Monitor:   monitor,
		Analytics: analytics,
		Gate:      gate,
		Store:     st,
	}, nil
}

// Close releases the store connection.
func (e *appEnv) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("store close failed", zap.Error(err))
	}
}
