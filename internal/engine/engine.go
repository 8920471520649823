package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arjun-mehta/portfolio-agent/internal/monitoring"
	"github.com/arjun-mehta/portfolio-agent/internal/profile"
	"github.com/arjun-mehta/portfolio-agent/internal/session"
	"github.com/arjun-mehta/portfolio-agent/internal/store"
)

// summaryKeywords mark an explicit summary request, one of the conditions
// that allows the rewrite call for summary strategies.
var summaryKeywords = []string{"summary", "summarize", "overview", "about", "profile", "rewrite"}

// Options wires the engine's collaborators. Nil stateful stores are
// default-constructed so tests can build a minimal engine.
type Options struct {
	Profile  *profile.Snapshot
	Polisher *Polisher
	Contexts *session.ContextStore
	Sessions *session.Manager

	Analytics *monitoring.Analytics
	Monitor   *monitoring.Monitor
	Store     store.Store

	IntentThreshold float64
	LatencyGuard    time.Duration
	LongAnswerChars int
}

// Engine sequences the pipeline per request and owns the top-level fallback
// path. All shared state lives in the injected collaborators; Handle itself
// is stateless and safe for concurrent use.
type Engine struct {
	profile   *profile.Snapshot
	rules     *RuleEngine
	extractor *Extractor
	polisher  *Polisher
	contexts  *session.ContextStore
	sessions  *session.Manager
	analytics *monitoring.Analytics
	monitor   *monitoring.Monitor
	store     store.Store

	intentThreshold float64
	latencyGuard    time.Duration
	longAnswerChars int

	// nowFunc drives the latency guard; injected in tests.
	nowFunc func() time.Time
}

// New creates an engine from opts, filling defaults for anything unset.
func New(opts Options) *Engine {
	e := &Engine{
		profile:         opts.Profile,
		rules:           NewRuleEngine(opts.Profile),
		extractor:       NewExtractor(opts.Profile),
		polisher:        opts.Polisher,
		contexts:        opts.Contexts,
		sessions:        opts.Sessions,
		analytics:       opts.Analytics,
		monitor:         opts.Monitor,
		store:           opts.Store,
		intentThreshold: opts.IntentThreshold,
		latencyGuard:    opts.LatencyGuard,
		longAnswerChars: opts.LongAnswerChars,
		nowFunc:         time.Now,
	}
	if e.contexts == nil {
		e.contexts = session.NewContextStore()
	}
	if e.sessions == nil {
		e.sessions = session.NewManager()
	}
	if e.analytics == nil {
		e.analytics = monitoring.NewAnalytics()
	}
	if e.monitor == nil {
		e.monitor = monitoring.NewMonitor()
	}
	if e.store == nil {
		e.store = store.NoopStore{}
	}
	if e.polisher == nil {
		e.polisher = NewPolisher(nil, nil, e.monitor, 0)
	}
	if e.intentThreshold <= 0 {
		e.intentThreshold = 0.45
	}
	if e.latencyGuard <= 0 {
		e.latencyGuard = 2500 * time.Millisecond
	}
	if e.longAnswerChars <= 0 {
		e.longAnswerChars = 600
	}
	return e
}

// Handle runs one question through the full pipeline. It never fails: every
// error degrades to a safe answer.
func (e *Engine) Handle(ctx context.Context, q Question) Response {
	start := e.nowFunc()
	wallStart := time.Now()
	e.monitor.RecordRequest()

	timing := make(map[string]float64)
	ctxState := e.contexts.Load(q.SessionID)

	// Intent ranking + threshold gate.
	tIntent := time.Now()
	ranked := RankIntents(q.Text, ctxState)
	intent, intentScore := ranked[0].Name, ranked[0].Score
	timing["intent_ms"] = msSince(tIntent)

	var overridden, unknownTriggered bool
	if intentScore < e.intentThreshold {
		intent = IntentUnknown
		overridden = true
		unknownTriggered = true
	}

	stages := PipelineStages{
		IntentDetected: IntentDetection{Intent: intent, Score: intentScore},
	}

	// Strategy + rules.
	tStrategy := time.Now()
	strat := SelectStrategy(intent, ctxState)
	timing["strategy_ms"] = msSince(tStrategy)
	stages.StrategySelected = strat.Type

	tRules := time.Now()
	raw, err := e.rules.Run(q.Text, intent, strat, ctxState)
	timing["rules_ms"] = msSince(tRules)
	if err != nil {
		zap.L().Error("engine: rules stage failed", zap.Error(err))
		return e.handleFallback(ctx, q, wallStart, timing)
	}
	stages.RulesResultLength = len(raw.Answer)

	// Low-confidence re-ranking over up to 2 runner-ups.
	if intent != IntentUnknown && intentScore < 0.55 && len(ranked) > 1 {
		intent, intentScore, strat, raw = e.rerank(q.Text, ctxState, ranked, intent, intentScore, strat, raw)
		stages.IntentDetected = IntentDetection{Intent: intent, Score: intentScore}
		stages.StrategySelected = strat.Type
		stages.RulesResultLength = len(raw.Answer)
	}

	// Recruiter classification with sticky session memory.
	userID := q.SessionID
	if userID == "" {
		userID = session.DefaultUserID
	}
	detected := ClassifyRecruiter(q.Text)
	e.sessions.Update(userID, detected)
	recruiterType, ok := e.sessions.Get(userID)
	if !ok {
		recruiterType = detected
	}

	e.analytics.Track(intent, string(recruiterType))

	// Psychology overlay: permute evidence, reframe phrasing.
	var psychProfile string
	var psychUsed bool
	if intent != IntentUnknown {
		raw.Answer, raw.Evidence, psychProfile, psychUsed = ApplyPsychology(raw.Answer, raw.Evidence, recruiterType, intent)
	}

	// Opt-in canned persona overlay.
	var personaVariant string
	var personaMS float64
	if q.Metadata.PersonaMode {
		tPersona := time.Now()
		raw.Answer, personaVariant = ApplyPersona(recruiterType)
		personaMS = msSince(tPersona)
	}

	// Branch: unknown / latency guard / normal.
	var (
		entities      Entities
		breakdown     ConfidenceBreakdown
		polished      PolishedResult
		guardTrigger  bool
		entitiesFound = map[string][]string{}
	)
	switch {
	case intent == IntentUnknown:
		raw.Confidence = 0
		breakdown = ConfidenceBreakdown{}
		polished = e.polisher.Polish(ctx, q.Text, raw, intent, strat.Type, recruiterType, false)
		unknownTriggered = true

	case e.nowFunc().Sub(start) > e.latencyGuard:
		guardTrigger = true
		breakdown = NewConfidenceBreakdown(intentScore, len(raw.Evidence), q.Text, entities)
		raw.Confidence = breakdown.Confidence
		polished = e.polisher.Polish(ctx, q.Text, raw, intent, strat.Type, recruiterType, false)

	default:
		tEntities := time.Now()
		entities = e.extractor.Extract(q.Text)
		timing["entities_ms"] = msSince(tEntities)
		entitiesFound = entities.AsMap()

		breakdown = NewConfidenceBreakdown(intentScore, len(raw.Evidence), q.Text, entities)
		raw.Confidence = breakdown.Confidence

		allow := e.allowLLM(intent, strat.Type, q.Text, raw.Answer)
		tPolish := time.Now()
		polished = e.polisher.Polish(ctx, q.Text, raw, intent, strat.Type, recruiterType, allow)
		timing["polish_ms"] = msSince(tPolish)
	}
	stages.EntitiesFound = entitiesFound
	stages.LLMAttempted = polished.LLMUsed ||
		polished.ErrorReason == ReasonTimeout || polished.ErrorReason == ReasonError
	stages.LLMSuccess = polished.LLMUsed && !polished.Err

	// Context update.
	lastProject := q.Metadata.LastProjectViewed
	if lastProject == "" && len(entities.Projects) > 0 {
		lastProject = entities.Projects[0]
	}
	e.contexts.Update(q.SessionID, session.ContextUpdate{
		CurrentPage:       q.Metadata.CurrentPage,
		LastProjectViewed: lastProject,
		LastEntities:      entities.AsMap(),
		Intent:            intent,
		Question:          q.Text,
	})

	timing["total_ms"] = msSince(wallStart)

	zap.L().Info("chat handled",
		zap.String("intent", intent),
		zap.String("strategy", strat.Type),
		zap.String("recruiter_type", string(recruiterType)),
		zap.Float64("confidence", raw.Confidence),
		zap.Bool("llm_used", polished.LLMUsed),
		zap.Float64("total_ms", timing["total_ms"]),
	)

	e.recordInteraction(ctx, q, userID, intent, strat.Type, recruiterType, raw.Confidence, polished.LLMUsed, timing["total_ms"])

	resp := Response{
		Answer:          polished.Answer,
		Intent:          intent,
		Strategy:        strat.Type,
		ConfidenceScore: raw.Confidence,
		Evidence:        raw.Evidence,
	}
	if q.Metadata.Debug {
		resp.Debug = &DebugInfo{
			TimingMS:               timing,
			LLMUsed:                polished.LLMUsed,
			LLMError:               polished.Err,
			LLMErrorReason:         polished.ErrorReason,
			LLMStatus:              polished.Status,
			PersonaModeUsed:        q.Metadata.PersonaMode,
			PersonaTransformMS:     personaMS,
			RecruiterTypeDetected:  string(recruiterType),
			PersonaVariantUsed:     personaVariant,
			PsychologyLayerUsed:    psychUsed,
			PsychologyProfile:      psychProfile,
			EvidenceRankingApplied: psychUsed,
			IntentScore:            intentScore,
			IntentOverridden:       overridden,
			UnknownIntentTriggered: unknownTriggered,
			IntentThreshold:        e.intentThreshold,
			LatencyGuardTriggered:  guardTrigger,
			PipelineStages:         stages,
			ConfidenceBreakdown:    breakdown,
		}
	}
	return resp
}

// rerank evaluates up to 2 runner-up intents and adopts whichever produced
// the strictly highest rule-engine confidence; first found wins ties.
func (e *Engine) rerank(question string, ctxState session.ContextState, ranked []RankedIntent, intent string, intentScore float64, strat Strategy, raw RawAnswer) (string, float64, Strategy, RawAnswer) {
	candidates := ranked[1:]
	if len(candidates) > 2 {
		candidates = candidates[:2]
	}
	for _, cand := range candidates {
		candStrat := SelectStrategy(cand.Name, ctxState)
		candRaw, err := e.rules.Run(question, cand.Name, candStrat, ctxState)
		if err != nil {
			continue
		}
		if candRaw.Confidence > raw.Confidence {
			intent, intentScore = cand.Name, cand.Score
			strat, raw = candStrat, candRaw
		}
	}
	return intent, intentScore, strat, raw
}

// allowLLM decides whether the polish stage may call the provider.
func (e *Engine) allowLLM(intent, strategyType, question, answer string) bool {
	if intent == IntentRoleFit {
		return true
	}
	if strategyType == StrategyComparison || strategyType == StrategyHighlight {
		return true
	}
	if strategyType == StrategySummary && containsAny(question, summaryKeywords) {
		return true
	}
	return len(answer) >= e.longAnswerChars
}

// handleFallback produces the safe minimal response when a stage fails. It
// first retries the rule engine with unknown_intent; only when that also
// fails does it fall back to the hardcoded answer. The caller always
// receives a usable answer.
func (e *Engine) handleFallback(ctx context.Context, q Question, wallStart time.Time, timing map[string]float64) Response {
	intent := IntentUnknown
	strat := newStrategy(StrategySummary, "professional_brief", false, false)
	raw, rerunErr := e.rules.Run(q.Text, intent, strat, session.ContextState{})
	if rerunErr != nil || raw.Answer == "" {
		raw = RawAnswer{
			Answer:   "A concise portfolio summary is available.",
			Evidence: []Evidence{SystemNote{Note: "fallback_no_data"}},
		}
	}
	breakdown := NewConfidenceBreakdown(0, len(raw.Evidence), q.Text, Entities{})
	raw.Confidence = breakdown.Confidence

	polished := e.polisher.Polish(ctx, q.Text, raw, intent, strat.Type, session.RecruiterGeneralist, false)

	e.contexts.Update(q.SessionID, session.ContextUpdate{
		CurrentPage: q.Metadata.CurrentPage,
		Intent:      intent,
		Question:    q.Text,
	})
	timing["total_ms"] = msSince(wallStart)

	resp := Response{
		Answer:          polished.Answer,
		Intent:          intent,
		Strategy:        strat.Type,
		ConfidenceScore: raw.Confidence,
		Evidence:        raw.Evidence,
	}
	if q.Metadata.Debug {
		resp.Debug = &DebugInfo{
			TimingMS:               timing,
			LLMErrorReason:         polished.ErrorReason,
			LLMStatus:              polished.Status,
			RecruiterTypeDetected:  string(session.RecruiterGeneralist),
			UnknownIntentTriggered: true,
			IntentThreshold:        e.intentThreshold,
			ConfidenceBreakdown:    breakdown,
		}
	}
	return resp
}

// recordInteraction appends the turn to the interaction log. Best effort;
// failures are logged and swallowed.
func (e *Engine) recordInteraction(ctx context.Context, q Question, sessionID, intent, strategyType string, rt session.RecruiterType, confidence float64, llmUsed bool, latencyMS float64) {
	err := e.store.RecordInteraction(ctx, store.Interaction{
		SessionID:     sessionID,
		QuestionHash:  store.HashQuestion(q.Text),
		Intent:        intent,
		Strategy:      strategyType,
		RecruiterType: string(rt),
		Confidence:    confidence,
		LLMUsed:       llmUsed,
		LatencyMS:     latencyMS,
	})
	if err != nil {
		zap.L().Warn("engine: record interaction failed", zap.Error(err))
	}
}

func msSince(t time.Time) float64 {
	return round2(float64(time.Since(t).Microseconds()) / 1000)
}
