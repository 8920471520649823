package engine

import "github.com/arjun-mehta/portfolio-agent/internal/session"

// ApplyPersona substitutes the canned paragraph for the recruiter type's
// variant. Opt-in via the persona_mode metadata flag; it replaces the
// current answer wholesale, so the orchestrator applies it last before the
// path branch.
func ApplyPersona(rt session.RecruiterType) (answer, variant string) {
	variant = profileForRecruiter(rt)
	return overlays.Persona[variant], variant
}

// PersonaVariant returns the canned paragraph for a named variant, falling
// back to the default variant. Keeps the founder voice reachable for callers
// that select it explicitly.
func PersonaVariant(name string) (string, string) {
	if text, ok := overlays.Persona[name]; ok {
		return text, name
	}
	return overlays.Persona["default"], "default"
}
