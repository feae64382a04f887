package config

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretPayload is the JSON shape stored in Secrets Manager. Field names
// match the secret document, not the env vars.
type secretPayload struct {
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	ElevenLabsAPIKey string `json:"elevenlabs_api_key"`
	BuzzsproutToken  string `json:"buzzsprout_token"`
}

// HydrateFromSecrets fills any blank API credentials from the Secrets
// Manager secret named by SecretID. Environment values win over secret
// values; a missing SecretID is a no-op. Called before Validate so a
// secret-backed deployment needs no credential env vars at all.
func (c *Config) HydrateFromSecrets(ctx context.Context) error {
	if c.SecretID == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.Region))
	if err != nil {
		return fmt.Errorf("loading AWS config for secrets: %w", err)
	}
	client := secretsmanager.NewFromConfig(awsCfg)

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &c.SecretID,
	})
	if err != nil {
		return fmt.Errorf("fetching secret %q: %w", c.SecretID, err)
	}
	if out.SecretString == nil {
		return fmt.Errorf("secret %q has no string payload", c.SecretID)
	}

	var payload secretPayload
	if err := json.Unmarshal([]byte(*out.SecretString), &payload); err != nil {
		return fmt.Errorf("parsing secret %q: %w", c.SecretID, err)
	}

	if c.AnthropicAPIKey == "" {
		c.AnthropicAPIKey = payload.AnthropicAPIKey
	}
	if c.ElevenLabsAPIKey == "" {
		c.ElevenLabsAPIKey = payload.ElevenLabsAPIKey
	}
	if c.BuzzsproutToken == "" {
		c.BuzzsproutToken = payload.BuzzsproutToken
	}
	return nil
}
