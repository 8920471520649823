package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arjun-mehta/portfolio-agent/internal/session"
)

// profileForRecruiter maps the classified recruiter type to a psychology
// profile. The founder profile has no classifier mapping; it stays reachable
// through ApplyPsychologyProfile for callers that select it directly.
func profileForRecruiter(rt session.RecruiterType) string {
	switch rt {
	case session.RecruiterTechLead:
		return "technical"
	case session.RecruiterHRManager:
		return "hr"
	case session.RecruiterProductManager:
		return "manager"
	}
	return "default"
}

// RankEvidence reorders evidence by the profile's source priority. The
// result is always a permutation of the input: stable sort, nothing added or
// removed, unknown sources last.
func RankEvidence(evidence []Evidence, profileName string) []Evidence {
	prof, ok := overlays.Psychology[profileName]
	if !ok {
		prof = overlays.Psychology["default"]
	}

	rank := make(map[Source]int, len(prof.RankOrder))
	for i, name := range prof.RankOrder {
		rank[Source(name)] = i
	}
	keyOf := func(e Evidence) int {
		if r, ok := rank[e.Source()]; ok {
			return r
		}
		return len(rank) + 1
	}

	out := append([]Evidence(nil), evidence...)
	sort.SliceStable(out, func(i, j int) bool {
		return keyOf(out[i]) < keyOf(out[j])
	})
	return out
}

// evidenceDigest renders a short one-line-per-item view of the first 4
// evidence items.
func evidenceDigest(evidence []Evidence) string {
	if len(evidence) == 0 {
		return "Evidence: None available."
	}

	lines := []string{"Evidence:"}
	for i, ev := range evidence {
		if i >= 4 {
			break
		}
		switch e := ev.(type) {
		case ProjectEvidence:
			detail := e.Title
			if detail == "" {
				detail = e.ID
			}
			if e.Domain != "" {
				detail += " (" + e.Domain + ")"
			}
			lines = append(lines, "- Project: "+detail)
		case ExperienceEvidence:
			detail := e.Role
			if e.Company != "" {
				detail += " at " + e.Company
			}
			lines = append(lines, "- Experience: "+detail)
		case SkillsEvidence:
			all := append(append([]string{}, e.Backend...), e.Frontend...)
			snippet := "skills listed"
			if len(all) > 0 {
				if len(all) > 4 {
					all = all[:4]
				}
				snippet = strings.Join(all, ", ")
			}
			lines = append(lines, "- Skills: "+snippet)
		case EducationEvidence:
			detail := e.Degree
			if e.Institution != "" {
				detail += " at " + e.Institution
			}
			lines = append(lines, "- Education: "+detail)
		case CertificateEvidence:
			detail := e.Name
			if e.Issuer != "" {
				detail += " (" + e.Issuer + ")"
			}
			lines = append(lines, "- Certificate: "+detail)
		default:
			lines = append(lines, fmt.Sprintf("- %s: listed", ev.Source()))
		}
	}
	return strings.Join(lines, "\n")
}

// ApplyPsychology reorders evidence and reframes the answer for the
// recruiter type. Facts are never altered: evidence is only permuted and the
// answer only wrapped. Skipped for unknown_intent.
func ApplyPsychology(answer string, evidence []Evidence, rt session.RecruiterType, intent string) (string, []Evidence, string, bool) {
	if intent == IntentUnknown {
		return answer, evidence, "unknown", false
	}
	return ApplyPsychologyProfile(answer, evidence, profileForRecruiter(rt))
}

// ApplyPsychologyProfile applies a named psychology profile directly.
func ApplyPsychologyProfile(answer string, evidence []Evidence, profileName string) (string, []Evidence, string, bool) {
	prof, ok := overlays.Psychology[profileName]
	if !ok {
		profileName = "default"
		prof = overlays.Psychology[profileName]
	}

	ranked := RankEvidence(evidence, profileName)
	digest := evidenceDigest(ranked)

	var blocks []string
	for _, section := range prof.Sections {
		body := section.Body
		body = strings.ReplaceAll(body, "{answer}", answer)
		body = strings.ReplaceAll(body, "{evidence}", digest)
		if section.Header != "" {
			blocks = append(blocks, section.Header+"\n"+body)
		} else {
			blocks = append(blocks, body)
		}
	}

	return strings.Join(blocks, "\n\n"), ranked, profileName, true
}
