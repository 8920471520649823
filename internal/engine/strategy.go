package engine

import "github.com/arjun-mehta/portfolio-agent/internal/session"

func newStrategy(strategyType, tone string, evidence, confidence bool) Strategy {
	return Strategy{
		Type:               strategyType,
		Tone:               tone,
		EvidenceRequired:   evidence,
		ConfidenceRequired: confidence,
	}
}

// SelectStrategy maps an intent to its response-shape descriptor. Unmapped
// intents fall back to a summary unless the most recent context intent was a
// project query, which keeps an evidence-driven exchange going.
func SelectStrategy(intent string, ctx session.ContextState) Strategy {
	switch intent {
	case IntentUnknown:
		return newStrategy(StrategyFallback, "professional_safe", false, false)
	case IntentRoleFit:
		return newStrategy(StrategyComparison, "professional_evaluative", true, true)
	case IntentProject:
		return newStrategy(StrategyEvidence, "technical_concise", true, true)
	case IntentSkills, IntentEducation, IntentCertificate, IntentContact:
		return newStrategy(StrategySummary, "professional_brief", false, false)
	case IntentExperience:
		return newStrategy(StrategyTimeline, "professional_structured", true, true)
	case IntentAbout:
		return newStrategy(StrategyHighlight, "professional_summary", false, false)
	}

	if ctx.LastIntent() == IntentProject {
		return newStrategy(StrategyEvidence, "technical_concise", true, true)
	}
	return newStrategy(StrategySummary, "professional_brief", false, false)
}
