package tts

import (
	"context"
	"fmt"
	"io"
)

// snippetLimit bounds how much of a non-audio response body is kept for
// diagnostics.
const snippetLimit = 512

// Provider synthesizes one line of speech to an output file.
type Provider interface {
	Name() string
	// Synthesize renders text with the given voice and streams the audio to
	// outPath. A non-audio response is a *SynthesisError. There is no retry
	// at this layer.
	Synthesize(ctx context.Context, text, voiceID, outPath string) error
	Close() error
}

// SynthesisError means the speech service answered with something other
// than audio, typically an error payload mislabeled as success.
type SynthesisError struct {
	Provider    string
	StatusCode  int
	ContentType string
	Snippet     string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s synthesis failed (status %d, content-type %q): %s",
		e.Provider, e.StatusCode, e.ContentType, e.Snippet)
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, snippetLimit))
	return string(b)
}

// RequiresAPIKey reports whether the provider needs an ElevenLabs API key.
// Google authenticates with Application Default Credentials instead.
func RequiresAPIKey(name string) bool {
	return name == "elevenlabs"
}

// ProviderNames returns the valid --tts values.
func ProviderNames() []string {
	return []string{"elevenlabs", "google"}
}

// NewProvider creates a TTS provider by name.
func NewProvider(ctx context.Context, name, elevenLabsAPIKey string) (Provider, error) {
	switch name {
	case "elevenlabs":
		return NewElevenLabsProvider(elevenLabsAPIKey), nil
	case "google":
		return NewGoogleProvider(ctx)
	default:
		return nil, fmt.Errorf("unknown TTS provider %q: choose elevenlabs or google", name)
	}
}
