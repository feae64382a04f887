package script

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

var novaModels = map[string]string{
	"nova-lite": "us.amazon.nova-2-lite-v1:0",
}

// NovaGenerator is the Bedrock transport for script generation, for runs
// that should stay inside AWS credentials only.
type NovaGenerator struct {
	model  string
	client *bedrockruntime.Client
}

func NewNovaGenerator(ctx context.Context, model string) (*NovaGenerator, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &NovaGenerator{
		model:  model,
		client: bedrockruntime.NewFromConfig(cfg),
	}, nil
}

func (g *NovaGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	modelID := novaModels[g.model]
	if modelID == "" {
		modelID = novaModels["nova-lite"]
	}

	resp, err := g.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(modelID),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: system},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: user},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(claudeMaxTokens),
			Temperature: aws.Float32(claudeTemperature),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Bedrock Converse error: %w", err)
	}

	text := extractNovaText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Bedrock")
	}
	return text, nil
}

func extractNovaText(resp *bedrockruntime.ConverseOutput) string {
	if resp.Output == nil {
		return ""
	}
	msg, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	for _, block := range msg.Value.Content {
		if tb, ok := block.(*types.ContentBlockMemberText); ok {
			return tb.Value
		}
	}
	return ""
}
