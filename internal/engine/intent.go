package engine

import (
	"sort"
	"strings"

	"github.com/arjun-mehta/portfolio-agent/internal/session"
)

// intentDef binds an intent to its trigger phrases and match weight.
// Declaration order doubles as the tie-break order for equal scores.
type intentDef struct {
	name    string
	weight  float64
	phrases []string
}

var intentDefs = []intentDef{
	{IntentRoleFit, 0.95, []string{
		"role fit", "good for", "fit for", "suitable for", "hire", "hiring",
		"candidate", "can he", "can she", "should we", "would you hire",
	}},
	{IntentSkills, 0.85, []string{
		"skill", "skills", "technology", "tech stack", "stack", "know",
		"experience with", "familiar with",
	}},
	{IntentProject, 0.8, []string{"project", "projects", "built"}},
	{IntentContact, 0.8, []string{"contact", "email", "phone", "linkedin", "github"}},
	{IntentAbout, 0.8, []string{"about", "who are you", "summary", "profile"}},
	{IntentExperience, 0.75, []string{"experience", "work", "role", "job"}},
	{IntentEducation, 0.7, []string{"education", "study", "college", "degree"}},
	{IntentCertificate, 0.7, []string{"certificate", "certification"}},
	{IntentPersonal, 0.7, []string{
		"hobby", "hobbies", "fun", "weekend", "passion", "interest", "life", "free time",
	}},
}

// pageIntents maps current_page section names to the intent they bias.
var pageIntents = map[string]string{
	"projects":   IntentProject,
	"experience": IntentExperience,
	"education":  IntentEducation,
	"skills":     IntentSkills,
}

const (
	pageBonus   = 0.6
	recentBonus = 0.5
)

// RankIntents scores every intent against the question and context and
// returns them sorted descending by score, ties kept in declaration order.
// An intent's score is the maximum of its phrase-match weight and any
// context bonus. If nothing scores above zero, a single unknown_intent at
// 0.1 is returned. Deterministic for identical inputs.
func RankIntents(question string, ctx session.ContextState) []RankedIntent {
	q := strings.ToLower(strings.TrimSpace(question))

	scores := make(map[string]float64, len(intentDefs))
	for _, def := range intentDefs {
		for _, phrase := range def.phrases {
			if strings.Contains(q, phrase) {
				scores[def.name] = def.weight
				break
			}
		}
	}

	if ctx.CurrentPage != "" {
		page := strings.ToLower(ctx.CurrentPage)
		for section, intent := range pageIntents {
			if strings.Contains(page, section) && scores[intent] < pageBonus {
				scores[intent] = pageBonus
			}
		}
	}

	if recent := ctx.LastIntent(); recent != "" && scores[recent] < recentBonus {
		scores[recent] = recentBonus
	}

	ranked := make([]RankedIntent, 0, len(scores))
	for _, def := range intentDefs {
		if s, ok := scores[def.name]; ok && s > 0 {
			ranked = append(ranked, RankedIntent{Name: def.name, Score: s})
		}
	}
	// Ring intents outside the fixed set still count; append them last.
	for name, s := range scores {
		if s <= 0 || containsIntent(ranked, name) || knownIntent(name) {
			continue
		}
		ranked = append(ranked, RankedIntent{Name: name, Score: s})
	}

	if len(ranked) == 0 {
		return []RankedIntent{{Name: IntentUnknown, Score: 0.1}}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func containsIntent(ranked []RankedIntent, name string) bool {
	for _, r := range ranked {
		if r.Name == name {
			return true
		}
	}
	return false
}

func knownIntent(name string) bool {
	for _, def := range intentDefs {
		if def.name == name {
			return true
		}
	}
	return false
}
