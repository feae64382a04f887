package script

import (
	"context"
	"fmt"
	"time"
)

// Default length targets: a 3800-9500 word dialogue is the proxy for a
// 20-25 minute spoken episode.
const (
	DefaultTargetMin = 3800
	DefaultTargetMax = 9500
	DefaultMaxRounds = 5
)

// Writer owns the prompts, parsing, validation, and the bounded
// length-expansion loop around a Generator. Each round produces a fresh
// candidate; the loop keeps the most recent one and a round counter, with
// no shared mutable draft state.
type Writer struct {
	gen Generator

	// TargetMin and TargetMax bound the dialogue word count; MaxRounds caps
	// the total number of generation calls (first draft included).
	TargetMin int
	TargetMax int
	MaxRounds int

	now func() time.Time
}

func NewWriter(gen Generator) *Writer {
	return &Writer{
		gen:       gen,
		TargetMin: DefaultTargetMin,
		TargetMax: DefaultTargetMax,
		MaxRounds: DefaultMaxRounds,
		now:       time.Now,
	}
}

// Write generates a validated episode script for the topic. Loop policy:
//   - a schema-invalid reply gets exactly one regeneration, then ErrSchemaInvalid
//   - a draft at or above TargetMin is accepted immediately (soft ceiling above
//     TargetMax: no trim round, never loops on oversized drafts)
//   - a draft below TargetMin triggers an expansion round carrying the draft
//   - after MaxRounds calls the run fails with ErrLengthTargetUnmet
func (w *Writer) Write(ctx context.Context, topic string, sources []string) (*Script, error) {
	system := buildSystemPrompt(w.TargetMin, w.TargetMax)
	user := buildUserPrompt(topic, sources, w.now())

	var (
		best        *Script
		regenerated bool
	)

	for round := 1; round <= w.MaxRounds; round++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		raw, err := w.gen.Complete(ctx, system, user)
		if err != nil {
			return nil, fmt.Errorf("text generation (round %d/%d): %w", round, w.MaxRounds, err)
		}

		s, perr := ParseScript(raw)
		if perr != nil {
			if regenerated {
				return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, perr)
			}
			regenerated = true
			continue // one more try with the same prompt
		}

		w.applyDefaults(s, topic)

		words := s.WordCount()
		if words >= w.TargetMin {
			return s, nil
		}

		best = s
		user = buildExpansionPrompt(s, words, w.TargetMin, w.TargetMax)
	}

	got := 0
	if best != nil {
		got = best.WordCount()
	}
	return nil, fmt.Errorf("%w: %d words after %d rounds (target %d-%d)",
		ErrLengthTargetUnmet, got, w.MaxRounds, w.TargetMin, w.TargetMax)
}

// applyDefaults fills the only two fields the contract allows to be patched
// when blank: title and pubDate. Everything else was validated at parse time.
func (w *Writer) applyDefaults(s *Script, topic string) {
	now := w.now().UTC()
	if s.Title == "" {
		s.Title = fmt.Sprintf("%s — %s", topic, now.Format("January 2, 2006"))
	}
	if s.PubDate == "" {
		s.PubDate = now.Format(PubDateFormat)
	}
}
