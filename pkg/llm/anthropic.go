package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// AnthropicRewriter implements Rewriter using the official anthropic-sdk-go.
type AnthropicRewriter struct {
	client sdk.Client
	model  string
}

// NewAnthropic creates an Anthropic-backed rewriter.
func NewAnthropic(apiKey, model string) *AnthropicRewriter {
	if strings.TrimSpace(model) == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicRewriter{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (r *AnthropicRewriter) Rewrite(ctx context.Context, req RewriteRequest) (string, error) {
	msg, err := r.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(r.model),
		MaxTokens: 500,
		System:    []sdk.TextBlockParam{{Text: req.System}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userPrompt(req))),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic create message")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", eris.New("llm: anthropic returned empty response")
	}
	return out, nil
}
