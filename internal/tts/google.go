package tts

import (
	"context"
	"fmt"
	"os"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// GoogleProvider implements Provider using Google Cloud TTS. It authenticates
// via Application Default Credentials.
type GoogleProvider struct {
	client *texttospeech.Client
}

func NewGoogleProvider(ctx context.Context) (*GoogleProvider, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create Google TTS client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) Synthesize(ctx context.Context, text, voiceID, outPath string) error {
	if voiceID == "" {
		return fmt.Errorf("no voice ID configured for Google synthesis")
	}

	resp, err := p.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: "en-US",
			Name:         voiceID,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return fmt.Errorf("Google TTS synthesize: %w", err)
	}
	if len(resp.AudioContent) == 0 {
		return &SynthesisError{Provider: p.Name(), Snippet: "empty audio content"}
	}

	if err := os.WriteFile(outPath, resp.AudioContent, 0644); err != nil {
		return fmt.Errorf("write audio to %s: %w", outPath, err)
	}
	return nil
}

func (p *GoogleProvider) Close() error { return p.client.Close() }
