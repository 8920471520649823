// Package llm provides the external rewrite capability used by the polish
// stage: a provider-agnostic rewrite(text) -> text call with a bounded
// context.
package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// RewriteRequest carries one rewrite call.
type RewriteRequest struct {
	// System is the instruction block: no new facts, persona tone bias.
	System string
	// Question is the asker's original question, passed for tone context.
	Question string
	// Answer is the raw text to rewrite.
	Answer string
}

// Rewriter rewrites answer text. Implementations must honor ctx deadlines.
type Rewriter interface {
	Rewrite(ctx context.Context, req RewriteRequest) (string, error)
}

// New builds a Rewriter for the named provider. An empty key yields a nil
// Rewriter and no error; the polish stage treats that as a missing
// credential.
func New(ctx context.Context, provider, key, model string) (Rewriter, error) {
	if strings.TrimSpace(key) == "" {
		return nil, nil
	}

	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "anthropic":
		return NewAnthropic(key, model), nil
	case "gemini":
		return NewGemini(ctx, key, model)
	default:
		return nil, eris.Errorf("llm: unknown provider %q", provider)
	}
}

func userPrompt(req RewriteRequest) string {
	var b strings.Builder
	b.WriteString("USER QUESTION: ")
	b.WriteString(req.Question)
	b.WriteString("\n\nRAW DATA:\n")
	b.WriteString(req.Answer)
	return b.String()
}
