package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/arjun-mehta/portfolio-agent/internal/monitoring"
	"github.com/arjun-mehta/portfolio-agent/internal/resilience"
	"github.com/arjun-mehta/portfolio-agent/internal/session"
	"github.com/arjun-mehta/portfolio-agent/pkg/llm"
)

// Polisher conditionally rewrites raw answers through the external provider,
// gated by the health gate and a bounded timeout. Every failure mode
// degrades to the unchanged raw answer.
type Polisher struct {
	rewriter llm.Rewriter
	gate     *resilience.HealthGate
	monitor  *monitoring.Monitor
	timeout  time.Duration

	nowFunc func() time.Time
}

// NewPolisher creates a polish stage. rewriter may be nil when no credential
// is configured.
func NewPolisher(rewriter llm.Rewriter, gate *resilience.HealthGate, monitor *monitoring.Monitor, timeout time.Duration) *Polisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if gate == nil {
		gate = resilience.NewHealthGate(resilience.DefaultHealthGateConfig())
	}
	if monitor == nil {
		monitor = monitoring.NewMonitor()
	}
	return &Polisher{
		rewriter: rewriter,
		gate:     gate,
		monitor:  monitor,
		timeout:  timeout,
		nowFunc:  time.Now,
	}
}

// Polish rewrites raw.Answer when allowed. The returned result always
// carries a usable answer.
func (p *Polisher) Polish(ctx context.Context, question string, raw RawAnswer, intent, strategyType string, rt session.RecruiterType, allowLLM bool) PolishedResult {
	out := PolishedResult{
		Answer:      raw.Answer,
		Status:      PolishSkipped,
		ErrorReason: ReasonNone,
	}

	if !allowLLM || raw.Answer == "" {
		return out
	}

	if p.rewriter == nil {
		out.Err = true
		out.ErrorReason = ReasonMissingKey
		p.monitor.RecordLLMFailure(ReasonMissingKey)
		return out
	}

	if !p.gate.ShouldUse() {
		out.Status = PolishDisabled
		return out
	}

	start := p.nowFunc()
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	rewritten, err := p.rewriter.Rewrite(callCtx, llm.RewriteRequest{
		System:   systemInstruction(rt, intent),
		Question: question,
		Answer:   raw.Answer,
	})
	if err != nil {
		reason := ReasonError
		if errors.Is(err, context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		out.Err = true
		out.ErrorReason = reason
		out.Status = PolishDegraded
		p.gate.RecordFailure()
		p.monitor.RecordLLMFailure(reason)
		zap.L().Warn("polish: rewrite failed",
			zap.String("reason", reason),
			zap.String("intent", intent),
			zap.Error(err),
		)
		return out
	}

	latency := p.nowFunc().Sub(start)
	p.gate.RecordSuccess()
	p.monitor.RecordLLMSuccess(float64(latency.Milliseconds()))

	out.Answer = rewritten
	out.LLMUsed = true
	out.Status = PolishHealthy
	return out
}

// systemInstruction builds the rewrite instruction: no invented facts, tone
// biased per recruiter type and intent.
func systemInstruction(rt session.RecruiterType, intent string) string {
	persona := personaInstruction(rt, intent)
	return "You are a professional portfolio assistant for a software engineer. " +
		persona +
		" Rewrite the following raw data into a concise, professional, and friendly response. " +
		"Do not invent facts. If the data is a list, make it conversational."
}

func personaInstruction(rt session.RecruiterType, intent string) string {
	var personalNote string
	if intent == IntentPersonal {
		switch rt {
		case session.RecruiterTechLead:
			personalNote = " If asked about hobbies, relate them to technology (e.g., home automation, coding side projects, 3D printing)."
		case session.RecruiterHRManager:
			personalNote = " If asked about hobbies, highlight team sports, reading, or volunteering."
		}
	}

	switch rt {
	case session.RecruiterTechLead:
		return "Persona: Technical Lead. Focus on architecture, stack depth (Go, PostgreSQL, gRPC), " +
			"and concise technical accuracy. Use precise engineering language." + personalNote
	case session.RecruiterHRManager:
		return "Persona: HR Manager. Emphasize soft skills, reliability, team fit, and career growth. " +
			"Keep the tone warm and professional." + personalNote
	case session.RecruiterProductManager:
		return "Persona: Product Manager. Emphasize project impact, delivery, and user-centric results. " +
			"Keep the tone pragmatic and outcomes-focused." + personalNote
	}
	return "Persona: Generalist recruiter. Keep responses professional, clear, and factual." + personalNote
}
