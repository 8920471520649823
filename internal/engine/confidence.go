package engine

import (
	"math"
	"strings"
)

var (
	freshnessWords = []string{"current", "latest", "recent", "present", "now"}
	recencyWords   = []string{"recent", "latest", "current"}

	// partialDomainKeywords give partial entity credit when no vocabulary
	// entity matched but the question is clearly on-domain.
	partialDomainKeywords = []string{
		"project", "skill", "experience", "education", "certificate", "contact", "role",
	}
)

func hasFreshnessWord(question string) bool {
	return containsAny(question, freshnessWords)
}

func hasRecencyWord(question string) bool {
	return containsAny(question, recencyWords)
}

func containsAny(question string, words []string) bool {
	q := strings.ToLower(question)
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func entityMatchStrength(question string, ents Entities) float64 {
	if !ents.IsEmpty() {
		return 1.0
	}
	if containsAny(question, partialDomainKeywords) {
		return 0.6
	}
	return 0.3
}

func freshnessBonus(question string) float64 {
	if hasFreshnessWord(question) {
		return 1.0
	}
	return 0.7
}

// NewConfidenceBreakdown recomputes the final confidence from the ranking
// score, evidence volume, entity matches, and freshness wording. The result
// overwrites the rule engine's score on the normal and latency-guard paths.
func NewConfidenceBreakdown(intentScore float64, evidenceCount int, question string, ents Entities) ConfidenceBreakdown {
	evidenceStrength := math.Min(float64(evidenceCount)/3.0, 1.0)
	entityStrength := entityMatchStrength(question, ents)
	freshness := freshnessBonus(question)

	confidence := intentScore*0.35 + evidenceStrength*0.30 + entityStrength*0.20 + freshness*0.15
	confidence = clamp(confidence, 0.1, 0.98)

	return ConfidenceBreakdown{
		Confidence:          round2(confidence),
		IntentScore:         round2(intentScore),
		EvidenceStrength:    round2(evidenceStrength),
		EntityMatchStrength: round2(entityStrength),
		FreshnessBonus:      round2(freshness),
	}
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(v, high))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
