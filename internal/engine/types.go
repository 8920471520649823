// Package engine implements the answer-orchestration pipeline: intent
// ranking, strategy selection, the domain rule engine, confidence scoring,
// recruiter classification, psychology and persona overlays, and the polish
// stage, sequenced by the orchestrator in engine.go.
package engine

// Intent names produced by the ranker.
const (
	IntentRoleFit     = "role_fit_evaluation"
	IntentSkills      = "skills_query"
	IntentProject     = "project_query"
	IntentExperience  = "experience_query"
	IntentEducation   = "education_query"
	IntentCertificate = "certificate_query"
	IntentContact     = "contact_query"
	IntentAbout       = "about_query"
	IntentPersonal    = "personal_query"
	IntentUnknown     = "unknown_intent"
)

// Strategy types.
const (
	StrategyComparison = "comparison_strategy"
	StrategyEvidence   = "evidence_strategy"
	StrategySummary    = "summary_strategy"
	StrategyTimeline   = "timeline_strategy"
	StrategyHighlight  = "highlight_strategy"
	StrategyFallback   = "fallback_strategy"
)

// Metadata carries optional per-request hints from the frontend.
type Metadata struct {
	Debug             bool   `json:"debug,omitempty"`
	PersonaMode       bool   `json:"persona_mode,omitempty"`
	CurrentPage       string `json:"current_page,omitempty"`
	LastProjectViewed string `json:"last_project_viewed,omitempty"`
}

// Question is one incoming request. Immutable once built.
type Question struct {
	Text      string   `json:"question"`
	SessionID string   `json:"session_id,omitempty"`
	Metadata  Metadata `json:"metadata,omitempty"`
}

// RankedIntent is one (intent, score) pair from the ranker.
type RankedIntent struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Strategy describes the response shape chosen for an intent.
type Strategy struct {
	Type               string `json:"strategy_type"`
	Tone               string `json:"tone_style"`
	EvidenceRequired   bool   `json:"evidence_required"`
	ConfidenceRequired bool   `json:"confidence_required"`
}

// RawAnswer is the rule engine's output, mutated by the overlay stages.
type RawAnswer struct {
	Answer     string
	Evidence   []Evidence
	Confidence float64
}

// ConfidenceBreakdown is the orchestrator-level confidence decomposition.
// All components are rounded to 2 decimals; Confidence is clamped to
// [0.1, 0.98] except on the unknown-intent path where it is exactly 0.
type ConfidenceBreakdown struct {
	Confidence          float64 `json:"confidence"`
	IntentScore         float64 `json:"intent_score"`
	EvidenceStrength    float64 `json:"evidence_strength"`
	EntityMatchStrength float64 `json:"entity_match_strength"`
	FreshnessBonus      float64 `json:"freshness_bonus"`
}

// Polish statuses.
const (
	PolishHealthy  = "healthy"
	PolishDegraded = "degraded"
	PolishSkipped  = "skipped"
	PolishDisabled = "disabled"
)

// Polish error reasons.
const (
	ReasonNone       = "none"
	ReasonMissingKey = "missing_key"
	ReasonTimeout    = "timeout"
	ReasonError      = "error"
)

// PolishedResult is the polish stage's outcome.
type PolishedResult struct {
	Answer      string
	LLMUsed     bool
	Status      string
	Err         bool
	ErrorReason string
}

// IntentDetection records the chosen intent and its raw score for debugging.
type IntentDetection struct {
	Intent string  `json:"intent"`
	Score  float64 `json:"score"`
}

// PipelineStages snapshots intermediate results for the debug payload.
type PipelineStages struct {
	IntentDetected    IntentDetection     `json:"intent_detected"`
	EntitiesFound     map[string][]string `json:"entities_found"`
	StrategySelected  string              `json:"strategy_selected"`
	RulesResultLength int                 `json:"rules_result_length"`
	LLMAttempted      bool                `json:"llm_attempted"`
	LLMSuccess        bool                `json:"llm_success"`
}

// DebugInfo is returned only when the request sets the debug flag.
type DebugInfo struct {
	TimingMS               map[string]float64  `json:"timing_ms"`
	LLMUsed                bool                `json:"llm_used"`
	LLMError               bool                `json:"llm_error"`
	LLMErrorReason         string              `json:"llm_error_reason"`
	LLMStatus              string              `json:"llm_status"`
	PersonaModeUsed        bool                `json:"persona_mode_used"`
	PersonaTransformMS     float64             `json:"persona_transform_ms"`
	RecruiterTypeDetected  string              `json:"recruiter_type_detected"`
	PersonaVariantUsed     string              `json:"persona_variant_used,omitempty"`
	PsychologyLayerUsed    bool                `json:"psychology_layer_used"`
	PsychologyProfile      string              `json:"psychology_profile,omitempty"`
	EvidenceRankingApplied bool                `json:"evidence_ranking_applied"`
	IntentScore            float64             `json:"intent_score"`
	IntentOverridden       bool                `json:"intent_overridden"`
	UnknownIntentTriggered bool                `json:"unknown_intent_triggered"`
	IntentThreshold        float64             `json:"intent_threshold"`
	LatencyGuardTriggered  bool                `json:"latency_guard_triggered"`
	PipelineStages         PipelineStages      `json:"pipeline_stage_results"`
	ConfidenceBreakdown    ConfidenceBreakdown `json:"confidence_breakdown"`
}

// Response is the final chat payload.
type Response struct {
	Answer          string     `json:"answer"`
	Intent          string     `json:"intent"`
	Strategy        string     `json:"strategy"`
	ConfidenceScore float64    `json:"confidence_score"`
	Evidence        []Evidence `json:"evidence"`
	Debug           *DebugInfo `json:"debug,omitempty"`
}
