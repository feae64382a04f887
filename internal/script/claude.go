package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var claudeModels = map[string]string{
	"haiku":  "claude-haiku-4-5-20251001",
	"sonnet": "claude-sonnet-4-5-20250929",
}

const (
	claudeTemperature = 0.7
	claudeMaxTokens   = 24576
)

// ClaudeGenerator is the Anthropic transport for script generation.
type ClaudeGenerator struct {
	model  string
	client anthropic.Client
}

// NewClaudeGenerator creates a generator for the named model alias
// ("haiku" or "sonnet"). The API key is passed in explicitly; there is no
// implicit environment read here.
func NewClaudeGenerator(model, apiKey string) *ClaudeGenerator {
	return &ClaudeGenerator{
		model:  model,
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (g *ClaudeGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	modelID := claudeModels[g.model]
	if modelID == "" {
		modelID = claudeModels["haiku"]
	}

	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelID),
		MaxTokens:   claudeMaxTokens,
		Temperature: anthropic.Float(claudeTemperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Claude API error: %w", err)
	}

	text := extractText(message)
	if text == "" {
		return "", fmt.Errorf("empty response from Claude")
	}
	return text, nil
}

func extractText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "")
}
