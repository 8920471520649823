package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun-mehta/portfolio-agent/internal/session"
)

func newTestEngine(opts Options) *Engine {
	if opts.Profile == nil {
		opts.Profile = testSnapshot()
	}
	return New(opts)
}

func TestHandle_ProjectScenario(t *testing.T) {
	e := newTestEngine(Options{})

	resp := e.Handle(context.Background(), Question{Text: "Tell me about your projects"})

	assert.Equal(t, IntentProject, resp.Intent)
	assert.Equal(t, StrategyEvidence, resp.Strategy)
	assert.NotEmpty(t, resp.Evidence)
	assert.Contains(t, resp.Answer, "LedgerLink")
	assert.GreaterOrEqual(t, resp.ConfidenceScore, 0.1)
	assert.LessOrEqual(t, resp.ConfidenceScore, 0.98)
}

func TestHandle_UnknownScenario(t *testing.T) {
	stub := &stubRewriter{answer: "polished"}
	e := newTestEngine(Options{Polisher: NewPolisher(stub, nil, nil, time.Second)})

	resp := e.Handle(context.Background(), Question{
		Text:     "What's your favorite color?",
		Metadata: Metadata{Debug: true},
	})

	assert.Equal(t, IntentUnknown, resp.Intent)
	assert.Equal(t, StrategyFallback, resp.Strategy)
	assert.Equal(t, RefusalAnswer, resp.Answer)
	assert.Zero(t, resp.ConfidenceScore)
	assert.Zero(t, stub.calls)

	require.NotNil(t, resp.Debug)
	assert.True(t, resp.Debug.UnknownIntentTriggered)
	assert.True(t, resp.Debug.IntentOverridden)
	assert.Zero(t, resp.Debug.ConfidenceBreakdown.Confidence)
}

func TestHandle_TechOverHRClassification(t *testing.T) {
	e := newTestEngine(Options{})

	resp := e.Handle(context.Background(), Question{
		Text:     "Does his kubernetes experience make him a good team fit?",
		Metadata: Metadata{Debug: true},
	})

	require.NotNil(t, resp.Debug)
	assert.Equal(t, string(session.RecruiterTechLead), resp.Debug.RecruiterTypeDetected)
}

func TestHandle_RewriteErrorKeepsRawAnswer(t *testing.T) {
	stub := &stubRewriter{err: errors.New("provider down")}
	e := newTestEngine(Options{Polisher: NewPolisher(stub, nil, nil, time.Second)})

	resp := e.Handle(context.Background(), Question{
		Text:     "Would you hire him?",
		Metadata: Metadata{Debug: true},
	})

	require.NotNil(t, resp.Debug)
	assert.Equal(t, 1, stub.calls)
	assert.False(t, resp.Debug.LLMUsed)
	assert.True(t, resp.Debug.LLMError)
	assert.Equal(t, ReasonError, resp.Debug.LLMErrorReason)
	assert.Contains(t, resp.Answer, "Fit summary")
}

func TestHandle_RewriteSuccessReplacesAnswer(t *testing.T) {
	stub := &stubRewriter{answer: "A polished fit narrative."}
	e := newTestEngine(Options{Polisher: NewPolisher(stub, nil, nil, time.Second)})

	resp := e.Handle(context.Background(), Question{
		Text:     "Would you hire him?",
		Metadata: Metadata{Debug: true},
	})

	assert.Equal(t, "A polished fit narrative.", resp.Answer)
	assert.True(t, resp.Debug.LLMUsed)
	assert.Equal(t, PolishHealthy, resp.Debug.LLMStatus)
}

func TestHandle_SummaryQuestionDoesNotCallLLM(t *testing.T) {
	stub := &stubRewriter{answer: "polished"}
	e := newTestEngine(Options{Polisher: NewPolisher(stub, nil, nil, time.Second)})

	// skills_query maps to summary_strategy; no summary keyword, short
	// answer, so the rewrite stays off.
	e.Handle(context.Background(), Question{Text: "What skills does he have?"})
	assert.Zero(t, stub.calls)
}

func TestHandle_StickyRecruiterSession(t *testing.T) {
	e := newTestEngine(Options{})
	sid := "session-1"

	first := e.Handle(context.Background(), Question{
		Text: "How does he use kubernetes?", SessionID: sid, Metadata: Metadata{Debug: true},
	})
	second := e.Handle(context.Background(), Question{
		Text: "Tell me about your projects", SessionID: sid, Metadata: Metadata{Debug: true},
	})

	assert.Equal(t, string(session.RecruiterTechLead), first.Debug.RecruiterTypeDetected)
	assert.Equal(t, string(session.RecruiterTechLead), second.Debug.RecruiterTypeDetected)
}

func TestHandle_RecentIntentRingBounded(t *testing.T) {
	contexts := session.NewContextStore()
	e := newTestEngine(Options{Contexts: contexts})
	sid := "session-ring"

	for i := 0; i < 8; i++ {
		e.Handle(context.Background(), Question{Text: "Tell me about your projects", SessionID: sid})
	}

	state := contexts.Load(sid)
	assert.LessOrEqual(t, len(state.RecentIntents), 5)
	assert.Equal(t, IntentProject, state.LastIntent())
}

func TestHandle_ContextCarriesEntities(t *testing.T) {
	contexts := session.NewContextStore()
	e := newTestEngine(Options{Contexts: contexts})
	sid := "session-entities"

	e.Handle(context.Background(), Question{Text: "What is the LedgerLink project built with?", SessionID: sid})

	state := contexts.Load(sid)
	assert.Equal(t, []string{"LedgerLink"}, state.LastEntities["projects"])
	assert.Equal(t, "LedgerLink", state.LastProjectViewed)
}

func TestHandle_LatencyGuard(t *testing.T) {
	stub := &stubRewriter{answer: "polished"}
	e := newTestEngine(Options{Polisher: NewPolisher(stub, nil, nil, time.Second)})

	base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	e.nowFunc = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(3 * time.Second)
	}

	resp := e.Handle(context.Background(), Question{
		Text:     "Would you hire him?",
		Metadata: Metadata{Debug: true},
	})

	require.NotNil(t, resp.Debug)
	assert.True(t, resp.Debug.LatencyGuardTriggered)
	assert.Empty(t, resp.Debug.PipelineStages.EntitiesFound["projects"])
	assert.Zero(t, stub.calls)
	assert.GreaterOrEqual(t, resp.ConfidenceScore, 0.1)
}

func TestHandle_PersonaModeSubstitutesAnswer(t *testing.T) {
	e := newTestEngine(Options{})

	resp := e.Handle(context.Background(), Question{
		Text:     "How does he handle kubernetes at scale?",
		Metadata: Metadata{Debug: true, PersonaMode: true},
	})

	require.NotNil(t, resp.Debug)
	assert.Equal(t, "technical", resp.Debug.PersonaVariantUsed)
	expected, _ := PersonaVariant("technical")
	assert.Equal(t, expected, resp.Answer)
}

func TestHandle_RecordsInteraction(t *testing.T) {
	capture := &captureStore{}
	e := newTestEngine(Options{Store: capture})

	e.Handle(context.Background(), Question{Text: "Tell me about your projects", SessionID: "s1"})

	require.Len(t, capture.interactions, 1)
	in := capture.interactions[0]
	assert.Equal(t, "s1", in.SessionID)
	assert.Equal(t, IntentProject, in.Intent)
	assert.Equal(t, StrategyEvidence, in.Strategy)
	assert.NotEmpty(t, in.QuestionHash)
}

func TestHandle_DefaultSessionID(t *testing.T) {
	capture := &captureStore{}
	e := newTestEngine(Options{Store: capture})

	e.Handle(context.Background(), Question{Text: "Tell me about your projects"})

	require.Len(t, capture.interactions, 1)
	assert.Equal(t, session.DefaultUserID, capture.interactions[0].SessionID)
}

func TestHandle_FallbackOnRulesFailure(t *testing.T) {
	// A nil profile makes the rules stage fail; the caller still gets a
	// usable answer.
	e := New(Options{})

	resp := e.Handle(context.Background(), Question{Text: "Tell me about your projects"})

	assert.Equal(t, IntentUnknown, resp.Intent)
	assert.Equal(t, StrategySummary, resp.Strategy)
	assert.Equal(t, "A concise portfolio summary is available.", resp.Answer)
	require.Len(t, resp.Evidence, 1)
	assert.Equal(t, SourceSystem, resp.Evidence[0].Source())
	assert.GreaterOrEqual(t, resp.ConfidenceScore, 0.1)
}

func TestHandleFallback_RerunsRulesFirst(t *testing.T) {
	// With a loaded profile the fallback path recovers through the rule
	// engine's unknown_intent answer instead of the canned pair.
	e := newTestEngine(Options{})

	resp := e.handleFallback(context.Background(), Question{Text: "anything"}, time.Now(), map[string]float64{})

	assert.Equal(t, IntentUnknown, resp.Intent)
	assert.Equal(t, StrategySummary, resp.Strategy)
	assert.Equal(t, RefusalAnswer, resp.Answer)
	assert.Empty(t, resp.Evidence)
	assert.GreaterOrEqual(t, resp.ConfidenceScore, 0.1)
}

func TestRerank_AdoptsHigherConfidenceCandidate(t *testing.T) {
	e := newTestEngine(Options{})
	ctxState := session.ContextState{}

	// personal_query yields low rule confidence; the project_query
	// runner-up scores higher on a project question and is adopted.
	strat := SelectStrategy(IntentPersonal, ctxState)
	raw, err := e.rules.Run("ledgerlink project details", IntentPersonal, strat, ctxState)
	require.NoError(t, err)

	ranked := []RankedIntent{
		{Name: IntentPersonal, Score: 0.5},
		{Name: IntentProject, Score: 0.48},
	}
	intent, score, newStrat, newRaw := e.rerank("ledgerlink project details", ctxState, ranked, IntentPersonal, 0.5, strat, raw)

	assert.Equal(t, IntentProject, intent)
	assert.Equal(t, 0.48, score)
	assert.Equal(t, StrategyEvidence, newStrat.Type)
	assert.Greater(t, newRaw.Confidence, raw.Confidence)
}

func TestRerank_KeepsOriginalWhenNoImprovement(t *testing.T) {
	e := newTestEngine(Options{})
	ctxState := session.ContextState{}

	strat := SelectStrategy(IntentProject, ctxState)
	raw, err := e.rules.Run("latest ledgerlink project", IntentProject, strat, ctxState)
	require.NoError(t, err)

	ranked := []RankedIntent{
		{Name: IntentProject, Score: 0.5},
		{Name: IntentPersonal, Score: 0.4},
	}
	intent, score, _, _ := e.rerank("latest ledgerlink project", ctxState, ranked, IntentProject, 0.5, strat, raw)

	assert.Equal(t, IntentProject, intent)
	assert.Equal(t, 0.5, score)
}
