package assembly

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/newscastfm/newscast/internal/script"
	"github.com/newscastfm/newscast/internal/tts"
)

// ErrEmptyEpisode means every dialogue turn was empty after trimming, so
// there is nothing to publish.
var ErrEmptyEpisode = errors.New("no non-empty dialogue turns to synthesize")

// Combiner concatenates per-turn clips, applies the mastering gain, and
// exports the final episode file.
type Combiner interface {
	Combine(ctx context.Context, segments []string, tmpDir, output string) error
}

// Assembler routes each dialogue turn to the synthesizer with its mapped
// voice and stitches the clips in turn order.
type Assembler struct {
	tts      tts.Provider
	voiceA   string
	voiceB   string
	combiner Combiner

	// OnTurn, when set, is called after each synthesized turn for progress
	// reporting. done counts non-empty turns completed so far.
	OnTurn func(done, total int)
}

func New(provider tts.Provider, voiceA, voiceB string, combiner Combiner) *Assembler {
	return &Assembler{
		tts:      provider,
		voiceA:   voiceA,
		voiceB:   voiceB,
		combiner: combiner,
	}
}

// Assemble synthesizes every non-empty turn of s into tmpDir and combines
// them into output. Clips are created and concatenated strictly in dialogue
// order; order is the sole ordering guarantee.
func (a *Assembler) Assemble(ctx context.Context, s *script.Script, tmpDir, output string) error {
	voices := NewVoiceMap(a.voiceA, a.voiceB)

	total := 0
	for _, turn := range s.Dialogue {
		if strings.TrimSpace(turn.Text) != "" {
			total++
		}
	}

	var segments []string
	for i, turn := range s.Dialogue {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}

		voiceID, err := voices.VoiceFor(strings.TrimSpace(turn.Speaker))
		if err != nil {
			return err
		}

		segPath := filepath.Join(tmpDir, fmt.Sprintf("seg_%03d.mp3", i))
		if err := a.tts.Synthesize(ctx, text, voiceID, segPath); err != nil {
			return fmt.Errorf("synthesize turn %d (%s: %q): %w", i, turn.Speaker, truncateText(text, 80), err)
		}
		segments = append(segments, segPath)

		if a.OnTurn != nil {
			a.OnTurn(len(segments), total)
		}
	}

	if len(segments) == 0 {
		return ErrEmptyEpisode
	}

	if err := a.combiner.Combine(ctx, segments, tmpDir, output); err != nil {
		return fmt.Errorf("combine %d clips: %w", len(segments), err)
	}
	return nil
}

func truncateText(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
