package engine

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/arjun-mehta/portfolio-agent/internal/profile"
	"github.com/arjun-mehta/portfolio-agent/internal/session"
)

// RefusalAnswer is the fixed unknown-intent response.
const RefusalAnswer = "I can only answer questions about Arjun's professional profile, " +
	"skills, projects, and experience. If you are evaluating him for a role, " +
	"you can ask about backend skills, projects, or experience."

// RuleEngine produces evidence-backed answers from the profile snapshot.
type RuleEngine struct {
	profile *profile.Snapshot
}

// NewRuleEngine creates a rule engine over the loaded profile.
func NewRuleEngine(snap *profile.Snapshot) *RuleEngine {
	return &RuleEngine{profile: snap}
}

// Run builds the raw answer for one (question, intent, strategy) triple.
// unknown_intent short-circuits to the refusal answer with confidence 0.
func (r *RuleEngine) Run(question, intent string, strat Strategy, ctx session.ContextState) (RawAnswer, error) {
	if r.profile == nil {
		return RawAnswer{}, eris.New("rules: profile not loaded")
	}
	if intent == IntentUnknown {
		return RawAnswer{Answer: RefusalAnswer, Evidence: nil, Confidence: 0}, nil
	}

	evidence := r.intentEvidence(intent)
	answer := r.answerFor(question, intent, strat.Type, ctx)

	// Single-project questions replace the generic list with the full record.
	if strat.Type == StrategyEvidence && intent == IntentProject {
		if p := r.projectFromContext(ctx); p != nil {
			answer = projectDetail(*p)
			evidence = []Evidence{ProjectEvidence{
				ID: p.ID, Title: p.Title, Domain: p.Domain,
				TechStack: p.TechStack, KeyFeatures: p.KeyFeatures,
			}}
		}
	}

	if len(evidence) == 0 {
		evidence = r.fallbackEvidence(question)
	}
	evidence = r.ensureMinEvidence(evidence, intent)

	return RawAnswer{
		Answer:     answer,
		Evidence:   evidence,
		Confidence: r.confidence(question, evidence, intent),
	}, nil
}

func (r *RuleEngine) answerFor(question, intent, strategyType string, ctx session.ContextState) string {
	switch strategyType {
	case StrategyComparison:
		return r.comparisonAnswer()
	case StrategyEvidence:
		if intent == IntentSkills {
			if hits := r.findTechMentions(question); len(hits) > 0 {
				return r.techEvidenceAnswer(hits[0])
			}
			return "Skills evidence is available across backend, frontend, databases, and tools."
		}
		if intent == IntentProject {
			return r.projectListAnswer()
		}
		return "Evidence-backed details are available for this request."
	case StrategySummary:
		return r.summaryAnswer(intent)
	default:
		return "Here is a structured portfolio summary based on your request."
	}
}

func (r *RuleEngine) comparisonAnswer() string {
	backend := r.profile.Skills.Backend
	if len(backend) > 3 {
		backend = backend[:3]
	}
	var highlights, titles []string
	if len(r.profile.Experience) > 0 {
		e := r.profile.Experience[0]
		highlights = append(highlights, fmt.Sprintf("%s at %s handling live client issues", e.Role, e.Company))
	}
	for i, p := range r.profile.Projects {
		if i >= 2 {
			break
		}
		titles = append(titles, p.Title)
	}
	if len(titles) > 0 {
		highlights = append(highlights, "projects include "+strings.Join(titles, " and "))
	}

	return fmt.Sprintf(
		"Fit summary: Strong backend focus (%s) with production ownership of B2B systems.\n"+
			"Evidence highlights: %s.\n"+
			"Considerations: Limited explicit large-team leadership signals; experience is early-career.\n"+
			"Confidence: Medium (based on portfolio data only).",
		strings.Join(backend, ", "), strings.Join(highlights, "; "),
	)
}

func (r *RuleEngine) projectListAnswer() string {
	var parts []string
	for _, p := range r.profile.Projects {
		parts = append(parts, fmt.Sprintf("%s (%s)", p.Title, p.Domain))
	}
	if len(parts) == 0 {
		return "Project details are available in the portfolio data."
	}
	return fmt.Sprintf(
		"Projects include %s. Each ships with a documented tech stack and key features.",
		strings.Join(parts, ", "),
	)
}

func projectDetail(p profile.Project) string {
	return fmt.Sprintf(
		"Project: %s\nDomain: %s\nSummary: %s\nKey features: %s",
		p.Title, p.Domain, p.Description, strings.Join(p.KeyFeatures, "; "),
	)
}

func (r *RuleEngine) techEvidenceAnswer(tech string) string {
	var using []string
	for _, p := range r.profile.Projects {
		for _, t := range p.TechStack {
			if strings.EqualFold(t, tech) {
				using = append(using, p.Title)
				break
			}
		}
	}

	listing := "Listed outside backend skills"
	for _, t := range r.profile.Skills.Backend {
		if strings.EqualFold(t, tech) {
			listing = tech
			break
		}
	}

	projects := "No project lists it explicitly"
	if len(using) > 0 {
		projects = strings.Join(using, ", ")
	}

	exposure := "Production support with live client issue resolution."
	if len(r.profile.Experience) > 0 {
		e := r.profile.Experience[0]
		exposure = fmt.Sprintf("%s at %s with live client issue resolution.", e.Role, e.Company)
	}

	return fmt.Sprintf(
		"Evidence for %s:\n- Skill listing: %s\n- Projects: %s\n- Production exposure: %s",
		tech, listing, projects, exposure,
	)
}

func (r *RuleEngine) summaryAnswer(intent string) string {
	switch intent {
	case IntentSkills:
		return "Skills span backend, frontend, databases, and tools with a backend-first focus."
	case IntentProject:
		return "Projects emphasize real-world delivery with clear outcomes."
	case IntentExperience:
		if len(r.profile.Experience) >= 2 {
			a, b := r.profile.Experience[0], r.profile.Experience[1]
			return fmt.Sprintf("Experience includes %s at %s and %s at %s.", a.Role, a.Company, b.Role, b.Company)
		}
		return "Experience details are available in the portfolio data."
	case IntentEducation:
		var degrees []string
		for _, e := range r.profile.Education {
			degrees = append(degrees, e.Degree)
		}
		if len(degrees) > 0 {
			return "Education includes " + strings.Join(degrees, " and ") + "."
		}
		return "Education details are available in the portfolio data."
	case IntentCertificate:
		return "Certifications are listed with issuer and year in the portfolio data."
	case IntentContact:
		return "Contact details are available in the portfolio data."
	case IntentAbout:
		return "This portfolio highlights a backend-focused engineer with production ownership and project delivery experience."
	}
	return "Here is a concise portfolio summary based on your request."
}

func (r *RuleEngine) projectFromContext(ctx session.ContextState) *profile.Project {
	titles := ctx.LastEntities["projects"]
	if len(titles) == 0 {
		return nil
	}
	for i := range r.profile.Projects {
		if strings.EqualFold(r.profile.Projects[i].Title, titles[0]) {
			return &r.profile.Projects[i]
		}
	}
	return nil
}

func (r *RuleEngine) intentEvidence(intent string) []Evidence {
	var evidence []Evidence
	switch intent {
	case IntentProject:
		for _, p := range r.profile.Projects {
			evidence = append(evidence, ProjectEvidence{
				ID: p.ID, Title: p.Title, Domain: p.Domain, TechStack: p.TechStack,
			})
		}
	case IntentExperience:
		for _, e := range r.profile.Experience {
			evidence = append(evidence, ExperienceEvidence{
				Role: e.Role, Company: e.Company, Duration: e.Duration,
			})
		}
	case IntentSkills:
		evidence = append(evidence, r.skillsEvidence())
	case IntentEducation:
		for _, e := range r.profile.Education {
			evidence = append(evidence, EducationEvidence{
				Degree: e.Degree, Institution: e.Institution, Duration: e.Duration,
			})
		}
	case IntentCertificate:
		for _, c := range r.profile.Certificates {
			evidence = append(evidence, CertificateEvidence{
				Name: c.Name, Issuer: c.Issuer, Year: c.Year,
			})
		}
	case IntentContact:
		c := r.profile.Contact
		evidence = append(evidence, ContactEvidence{
			Email: c.Email, Phone: c.Phone, LinkedIn: c.LinkedIn, GitHub: c.GitHub,
		})
	}
	return evidence
}

func (r *RuleEngine) skillsEvidence() SkillsEvidence {
	return SkillsEvidence{
		Backend:   r.profile.Skills.Backend,
		Frontend:  r.profile.Skills.Frontend,
		Languages: r.profile.Skills.ProgrammingLanguages,
	}
}

// findTechMentions returns skill tokens mentioned literally in the question.
func (r *RuleEngine) findTechMentions(question string) []string {
	q := strings.ToLower(question)
	s := r.profile.Skills
	candidates := make([]string, 0,
		len(s.Backend)+len(s.Frontend)+len(s.ToolsPlatforms))
	candidates = append(candidates, s.Backend...)
	candidates = append(candidates, s.Frontend...)
	candidates = append(candidates, s.ToolsPlatforms...)
	candidates = append(candidates, s.ProgrammingLanguages["primary"]...)
	candidates = append(candidates, s.ProgrammingLanguages["core"]...)

	var hits []string
	for _, tech := range candidates {
		if strings.Contains(q, strings.ToLower(tech)) {
			hits = append(hits, tech)
		}
	}
	return hits
}

// fallbackEvidence scans profile names literally against the question when
// the intent produced nothing.
func (r *RuleEngine) fallbackEvidence(question string) []Evidence {
	q := strings.ToLower(question)
	var out []Evidence

	s := r.profile.Skills
	var matched []string
	for _, tech := range append(append(append([]string{}, s.Backend...), s.Frontend...), s.ToolsPlatforms...) {
		if strings.Contains(q, strings.ToLower(tech)) {
			matched = append(matched, tech)
		}
	}
	if len(matched) > 0 {
		if len(matched) > 5 {
			matched = matched[:5]
		}
		out = append(out, SkillsEvidence{Matched: matched})
	}

	for _, p := range r.profile.Projects {
		if p.Title != "" && strings.Contains(q, strings.ToLower(p.Title)) {
			out = append(out, ProjectEvidence{
				ID: p.ID, Title: p.Title, Domain: p.Domain, TechStack: p.TechStack,
			})
		}
	}

	for _, e := range r.profile.Experience {
		if (e.Role != "" && strings.Contains(q, strings.ToLower(e.Role))) ||
			(e.Company != "" && strings.Contains(q, strings.ToLower(e.Company))) {
			out = append(out, ExperienceEvidence{Role: e.Role, Company: e.Company, Duration: e.Duration})
		}
	}

	for _, e := range r.profile.Education {
		if (e.Degree != "" && strings.Contains(q, strings.ToLower(e.Degree))) ||
			(e.Institution != "" && strings.Contains(q, strings.ToLower(e.Institution))) {
			out = append(out, EducationEvidence{Degree: e.Degree, Institution: e.Institution, Duration: e.Duration})
		}
	}

	return out
}

// ensureMinEvidence enforces the minimum-evidence guarantee: intent-matching
// source present for project/skills/experience queries, two distinct sources
// for role fit, and never an empty list.
func (r *RuleEngine) ensureMinEvidence(evidence []Evidence, intent string) []Evidence {
	out := evidence
	sources := make(map[Source]bool, len(out))
	for _, e := range out {
		sources[e.Source()] = true
	}

	addProject := func() {
		if len(r.profile.Projects) > 0 {
			p := r.profile.Projects[0]
			out = append(out, ProjectEvidence{
				ID: p.ID, Title: p.Title, Domain: p.Domain, TechStack: p.TechStack,
			})
		}
	}
	addSkills := func() {
		out = append(out, r.skillsEvidence())
	}
	addExperience := func() {
		if len(r.profile.Experience) > 0 {
			e := r.profile.Experience[0]
			out = append(out, ExperienceEvidence{Role: e.Role, Company: e.Company, Duration: e.Duration})
		}
	}
	addEducation := func() {
		if len(r.profile.Education) > 0 {
			e := r.profile.Education[0]
			out = append(out, EducationEvidence{Degree: e.Degree, Institution: e.Institution, Duration: e.Duration})
		}
	}

	switch intent {
	case IntentProject:
		if !sources[SourceProjects] {
			addProject()
		}
	case IntentSkills:
		if !sources[SourceSkills] {
			addSkills()
		}
	case IntentExperience:
		if !sources[SourceExperience] {
			addExperience()
		}
	case IntentRoleFit:
		for len(out) < 2 {
			switch {
			case !sources[SourceSkills]:
				addSkills()
				sources[SourceSkills] = true
			case !sources[SourceExperience]:
				addExperience()
				sources[SourceExperience] = true
			case !sources[SourceProjects]:
				addProject()
				sources[SourceProjects] = true
			case !sources[SourceEducation]:
				addEducation()
				sources[SourceEducation] = true
			default:
				return out
			}
		}
	}

	if len(out) == 0 {
		addSkills()
	}
	return out
}

// confidence scores the answer from match strength, intent relevance, and a
// recency hint. Rounded to 2 decimals, capped at 1.
func (r *RuleEngine) confidence(question string, evidence []Evidence, intent string) float64 {
	if len(evidence) == 0 {
		return 0.2
	}

	match := 0.3
	for _, e := range evidence {
		if sharesWord(e.searchText(), question) {
			match = 1.0
			break
		}
	}

	intentBonus := 0.1
	switch intent {
	case IntentProject, IntentExperience, IntentSkills:
		intentBonus = 0.2
	}

	recency := 0.0
	if hasRecencyWord(question) {
		recency = 0.2
	}

	score := 0.4 + match*0.3 + intentBonus + recency
	if score > 1 {
		score = 1
	}
	return round2(score)
}

func sharesWord(text, question string) bool {
	for _, word := range strings.Fields(strings.ToLower(question)) {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
