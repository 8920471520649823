package engine

import (
	"strings"

	"github.com/arjun-mehta/portfolio-agent/internal/profile"
)

// Entities groups the vocabulary matches found in a question.
type Entities struct {
	Projects  []string `json:"projects"`
	TechStack []string `json:"tech_stack"`
	Roles     []string `json:"roles"`
	Domains   []string `json:"domains"`
}

// IsEmpty reports whether no bucket matched.
func (e Entities) IsEmpty() bool {
	return len(e.Projects) == 0 && len(e.TechStack) == 0 && len(e.Roles) == 0 && len(e.Domains) == 0
}

// AsMap converts the buckets to the shape stored in session context.
func (e Entities) AsMap() map[string][]string {
	return map[string][]string{
		"projects":   e.Projects,
		"tech_stack": e.TechStack,
		"roles":      e.Roles,
		"domains":    e.Domains,
	}
}

// roleKeywords are generic role categories matched verbatim.
var roleKeywords = []string{"backend", "frontend", "full stack", "fullstack", "devops", "data", "ai"}

// Extractor scans questions against the profile's known vocabulary.
type Extractor struct {
	profile *profile.Snapshot
}

// NewExtractor creates an extractor over the loaded profile.
func NewExtractor(snap *profile.Snapshot) *Extractor {
	return &Extractor{profile: snap}
}

// Extract never fails; a nil profile degrades to all-empty buckets.
func (x *Extractor) Extract(question string) Entities {
	var out Entities
	if x.profile == nil {
		return out
	}
	q := strings.ToLower(strings.TrimSpace(question))

	var projects, tech, roles, domains []string

	for _, p := range x.profile.Projects {
		if containsToken(q, p.Title) || containsToken(q, p.ID) {
			projects = append(projects, p.Title)
		}
		if containsToken(q, p.Domain) {
			domains = append(domains, p.Domain)
		}
		for _, t := range p.TechStack {
			if containsToken(q, t) {
				tech = append(tech, t)
			}
		}
	}

	s := x.profile.Skills
	for _, t := range append(append(append([]string{}, s.Backend...), s.Frontend...), s.ToolsPlatforms...) {
		if containsToken(q, t) {
			tech = append(tech, t)
		}
	}

	for _, e := range x.profile.Experience {
		if containsToken(q, e.Role) {
			roles = append(roles, e.Role)
		}
	}
	for _, rk := range roleKeywords {
		if strings.Contains(q, rk) {
			roles = append(roles, rk)
		}
	}

	out.Projects = dedupe(projects)
	out.TechStack = dedupe(tech)
	out.Roles = dedupe(roles)
	out.Domains = dedupe(domains)
	return out
}

func containsToken(q, token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	return token != "" && strings.Contains(q, token)
}

// dedupe removes case-insensitive duplicates preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if !seen[key] {
			seen[key] = true
			out = append(out, item)
		}
	}
	return out
}
