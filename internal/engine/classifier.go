package engine

import (
	"strings"

	"go.uber.org/zap"

	"github.com/arjun-mehta/portfolio-agent/internal/session"
)

// Keyword lists for recruiter classification. Priority between the lists is
// ordinal, not magnitude: any technical hit wins over any number of HR hits.
var (
	techKeywords = []string{
		"sharding", "scale", "latency", "throughput", "cap theorem",
		"microservices", "distributed", "concurrency", "goroutine", "async",
		"database", "sql", "nosql", "redis", "caching", "optimization",
		"grpc", "system design", "deployment", "ci/cd", "docker",
		"kubernetes", "aws", "cloud", "kafka",
	}

	hrKeywords = []string{
		"culture", "team", "fit", "values", "hobby", "hobbies", "fun",
		"weekend", "passion", "outside work", "conflict", "weakness",
		"strength", "salary", "notice period", "relocation", "remote",
		"soft skills",
	}

	productKeywords = []string{
		"roadmap", "timeline", "deadline", "user", "customer", "impact",
		"metrics", "kpi", "growth", "feature", "prioritization", "agile",
		"scrum",
	}
)

func countKeywords(q string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(q, k) {
			n++
		}
	}
	return n
}

// ClassifyRecruiter detects the asker persona from keyword hits. Stateless;
// session stickiness lives in session.Manager.
func ClassifyRecruiter(question string) session.RecruiterType {
	q := strings.ToLower(question)
	techHits := countKeywords(q, techKeywords)
	hrHits := countKeywords(q, hrKeywords)
	productHits := countKeywords(q, productKeywords)

	var detected session.RecruiterType
	switch {
	case techHits >= 1:
		detected = session.RecruiterTechLead
	case hrHits >= 1:
		detected = session.RecruiterHRManager
	case productHits >= 1:
		detected = session.RecruiterProductManager
	default:
		detected = session.RecruiterGeneralist
	}

	zap.L().Debug("recruiter type detected",
		zap.String("type", string(detected)),
		zap.Int("tech_hits", techHits),
		zap.Int("hr_hits", hrHits),
		zap.Int("product_hits", productHits),
	)
	return detected
}
