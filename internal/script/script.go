package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// PubDateFormat is the RFC-2822 style timestamp format used on the wire,
// in the episode catalog, and in the RSS feed.
const PubDateFormat = time.RFC1123Z

var (
	// ErrSchemaInvalid means the generation service replied with something
	// that is not a parseable episode script, even after the single bounded
	// regeneration attempt.
	ErrSchemaInvalid = errors.New("script response does not match the episode schema")

	// ErrLengthTargetUnmet means the dialogue stayed under the minimum word
	// target after the maximum number of expansion rounds.
	ErrLengthTargetUnmet = errors.New("script stayed under the word target")
)

// Turn is one utterance attributed to a single speaker. Time is a purely
// advisory "MM:SS" label; playback order is the slice order, never the label.
type Turn struct {
	Speaker string `json:"speaker"`
	Time    string `json:"time"`
	Text    string `json:"text"`
}

// Script is the validated output of the generation stage.
type Script struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
	Dialogue    []Turn `json:"dialogue"`
}

// WordCount sums the spoken words across all dialogue turns.
func (s *Script) WordCount() int {
	total := 0
	for _, t := range s.Dialogue {
		total += len(strings.Fields(t.Text))
	}
	return total
}

// Generator performs one raw round-trip against a text-generation model.
// Implementations are single-shot transports: no retries, no parsing. The
// only retry policy in the system lives in Writer's expansion loop.
type Generator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

func SaveScript(s *Script, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal script: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write script to %s: %w", path, err)
	}
	return nil
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script from %s: %w", path, err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script from %s: %w", path, err)
	}
	if len(s.Dialogue) == 0 {
		return nil, fmt.Errorf("script %s has no dialogue", path)
	}
	return &s, nil
}
