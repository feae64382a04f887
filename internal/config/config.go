package config

import (
	"fmt"
	"os"
	"strings"
)

// Config is the full externally-supplied configuration surface. It is read
// from the environment exactly once at process start and passed explicitly
// into constructors; nothing re-reads the environment later.
type Config struct {
	Bucket        string
	Region        string
	PublicBaseURL string

	VoiceA string
	VoiceB string

	AnthropicAPIKey  string
	ElevenLabsAPIKey string

	BuzzsproutID    string
	BuzzsproutToken string

	FeedTitle       string
	FeedLink        string
	FeedDescription string

	// SecretID, when set, names an AWS Secrets Manager secret whose JSON
	// fields fill any API credentials left blank above.
	SecretID string
}

// MissingError reports every absent required variable at once, so a broken
// deployment is fixed in one pass instead of one variable per run.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required environment variable(s): %s", strings.Join(e.Vars, ", "))
}

// Load reads the environment. It performs no validation; call Validate with
// the needs of the current command before doing any network work.
func Load() *Config {
	cfg := &Config{
		Bucket:           os.Getenv("NEWSCAST_S3_BUCKET"),
		Region:           os.Getenv("AWS_REGION"),
		PublicBaseURL:    os.Getenv("NEWSCAST_PUBLIC_BASE_URL"),
		VoiceA:           os.Getenv("ELEVEN_VOICE_A_ID"),
		VoiceB:           os.Getenv("ELEVEN_VOICE_B_ID"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		BuzzsproutID:     os.Getenv("BUZZSPROUT_ID"),
		BuzzsproutToken:  os.Getenv("BUZZSPROUT_TOKEN"),
		FeedTitle:        os.Getenv("NEWSCAST_FEED_TITLE"),
		FeedLink:         os.Getenv("NEWSCAST_FEED_LINK"),
		FeedDescription:  os.Getenv("NEWSCAST_FEED_DESCRIPTION"),
		SecretID:         os.Getenv("NEWSCAST_SECRET_ID"),
	}

	if cfg.FeedTitle == "" {
		cfg.FeedTitle = "Signal & Noise"
	}
	if cfg.FeedDescription == "" {
		cfg.FeedDescription = "Automated AI co-hosted show"
	}
	return cfg
}

// Needs declares which pipeline stages the current command will run, so
// only their credentials are required. Script and ElevenLabs are separate
// from the stage flags because Bedrock models and Google TTS authenticate
// through AWS and ADC rather than API keys.
type Needs struct {
	Script     bool // Anthropic-backed text generation
	Synthesis  bool // any TTS (voice IDs)
	ElevenLabs bool // ElevenLabs specifically (API key)
	Publish    bool // S3 + feed
}

// Validate checks presence of everything the declared stages require. All
// problems are reported together. Must pass before any network call.
func (c *Config) Validate(n Needs) error {
	var missing []string

	if n.Script && c.AnthropicAPIKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}
	if n.ElevenLabs && c.ElevenLabsAPIKey == "" {
		missing = append(missing, "ELEVENLABS_API_KEY")
	}
	if n.Synthesis {
		if c.VoiceA == "" {
			missing = append(missing, "ELEVEN_VOICE_A_ID")
		}
		if c.VoiceB == "" {
			missing = append(missing, "ELEVEN_VOICE_B_ID")
		}
	}
	if n.Publish {
		if c.Bucket == "" {
			missing = append(missing, "NEWSCAST_S3_BUCKET")
		}
		if c.Region == "" {
			missing = append(missing, "AWS_REGION")
		}
	}

	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}

	// Buzzsprout is optional, but half a credential pair is a config bug,
	// not a disabled feature.
	if (c.BuzzsproutID == "") != (c.BuzzsproutToken == "") {
		return fmt.Errorf("BUZZSPROUT_ID and BUZZSPROUT_TOKEN must be set together")
	}

	return nil
}

// HostEnabled reports whether publishes should also push to Buzzsprout.
func (c *Config) HostEnabled() bool {
	return c.BuzzsproutID != "" && c.BuzzsproutToken != ""
}

// PublicBase returns the public URL base for stored objects, defaulting to
// the bucket's regional S3 endpoint.
func (c *Config) PublicBase() string {
	if c.PublicBaseURL != "" {
		return strings.TrimRight(c.PublicBaseURL, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
}

// FeedURL is the well-known public address of the RSS document.
func (c *Config) FeedURL() string {
	if c.FeedLink != "" {
		return c.FeedLink
	}
	return c.PublicBase() + "/rss.xml"
}
