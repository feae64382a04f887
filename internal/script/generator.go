package script

import (
	"context"
	"fmt"
)

// ModelNames returns the valid --model values.
func ModelNames() []string {
	return []string{"haiku", "sonnet", "nova-lite"}
}

// RequiresAPIKey reports whether the model alias needs an Anthropic API
// key. Bedrock models authenticate with AWS credentials instead.
func RequiresAPIKey(model string) bool {
	_, ok := claudeModels[model]
	return ok
}

// NewGenerator creates a text-generation transport by model alias.
func NewGenerator(ctx context.Context, model, anthropicAPIKey string) (Generator, error) {
	switch model {
	case "haiku", "sonnet":
		return NewClaudeGenerator(model, anthropicAPIKey), nil
	case "nova-lite":
		return NewNovaGenerator(ctx, model)
	default:
		return nil, fmt.Errorf("unknown model %q: choose haiku, sonnet, or nova-lite", model)
	}
}
