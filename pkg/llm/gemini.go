package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiRewriter implements Rewriter using the Google GenAI SDK.
type GeminiRewriter struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed rewriter.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiRewriter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: create genai client")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiModel
	}
	return &GeminiRewriter{client: client, model: model}, nil
}

func (r *GeminiRewriter) Rewrite(ctx context.Context, req RewriteRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		},
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(userPrompt(req)), cfg)
	if err != nil {
		return "", eris.Wrap(err, "llm: gemini generate content")
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part.Text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", eris.New("llm: gemini returned empty response")
	}
	return out, nil
}
