package assembly

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newscastfm/newscast/internal/script"
)

// markerProvider writes each turn's text as the clip content so the combiner
// output reveals synthesis order.
type markerProvider struct {
	voices []string // voice ID per synthesized turn, in call order
}

func (p *markerProvider) Name() string { return "marker" }

func (p *markerProvider) Synthesize(_ context.Context, text, voiceID, outPath string) error {
	p.voices = append(p.voices, voiceID)
	return os.WriteFile(outPath, []byte(text), 0644)
}

func (p *markerProvider) Close() error { return nil }

// catCombiner concatenates clip contents with | separators.
type catCombiner struct {
	segments []string
}

func (c *catCombiner) Combine(_ context.Context, segments []string, _, output string) error {
	c.segments = segments
	var parts []string
	for _, seg := range segments {
		data, err := os.ReadFile(seg)
		if err != nil {
			return err
		}
		parts = append(parts, string(data))
	}
	return os.WriteFile(output, []byte(strings.Join(parts, "|")), 0644)
}

func twoHostScript(turns ...script.Turn) *script.Script {
	return &script.Script{
		Title:       "Test",
		Description: "Test",
		PubDate:     "Mon, 31 Aug 2026 09:00:00 +0000",
		Dialogue:    turns,
	}
}

func TestAssemblePreservesTurnOrder(t *testing.T) {
	p := &markerProvider{}
	c := &catCombiner{}
	a := New(p, "voice-a", "voice-b", c)

	s := twoHostScript(
		script.Turn{Speaker: "Alex", Time: "00:00", Text: "one"},
		script.Turn{Speaker: "Sam", Time: "00:10", Text: "two"},
		script.Turn{Speaker: "Alex", Time: "00:20", Text: "three"},
		script.Turn{Speaker: "Sam", Time: "00:30", Text: "four"},
	)

	tmp := t.TempDir()
	out := filepath.Join(tmp, "episode.mp3")
	require.NoError(t, a.Assemble(context.Background(), s, tmp, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "one|two|three|four", string(data))
}

func TestAssembleMapsVoicesFirstSeen(t *testing.T) {
	p := &markerProvider{}
	a := New(p, "voice-a", "voice-b", &catCombiner{})

	s := twoHostScript(
		script.Turn{Speaker: "Sam", Text: "sam leads"},
		script.Turn{Speaker: "Alex", Text: "alex replies"},
		script.Turn{Speaker: "Sam", Text: "sam again"},
		script.Turn{Speaker: "Alex", Text: "alex again"},
	)

	tmp := t.TempDir()
	require.NoError(t, a.Assemble(context.Background(), s, tmp, filepath.Join(tmp, "ep.mp3")))

	// First-seen speaker gets voice A, and assignments stay stable.
	assert.Equal(t, []string{"voice-a", "voice-b", "voice-a", "voice-b"}, p.voices)
}

func TestAssembleRejectsThirdSpeaker(t *testing.T) {
	a := New(&markerProvider{}, "voice-a", "voice-b", &catCombiner{})

	s := twoHostScript(
		script.Turn{Speaker: "Alex", Text: "hi"},
		script.Turn{Speaker: "Sam", Text: "hello"},
		script.Turn{Speaker: "Jordan", Text: "surprise"},
	)

	tmp := t.TempDir()
	out := filepath.Join(tmp, "ep.mp3")
	err := a.Assemble(context.Background(), s, tmp, out)
	require.ErrorIs(t, err, ErrTooManySpeakers)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no episode file on speaker-map failure")
}

func TestAssembleSkipsEmptyTurns(t *testing.T) {
	p := &markerProvider{}
	a := New(p, "voice-a", "voice-b", &catCombiner{})

	s := twoHostScript(
		script.Turn{Speaker: "Alex", Text: "  "},
		script.Turn{Speaker: "Sam", Text: "only line"},
	)

	tmp := t.TempDir()
	out := filepath.Join(tmp, "ep.mp3")
	require.NoError(t, a.Assemble(context.Background(), s, tmp, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "only line", string(data))
	// The blank Alex turn was skipped before speaker mapping, so Sam holds
	// voice A here: first non-empty speaker wins the first slot.
	assert.Equal(t, []string{"voice-a"}, p.voices)
}

func TestAssembleFailsOnAllEmptyDialogue(t *testing.T) {
	a := New(&markerProvider{}, "voice-a", "voice-b", &catCombiner{})

	s := twoHostScript(
		script.Turn{Speaker: "Alex", Text: ""},
		script.Turn{Speaker: "Sam", Text: "   "},
	)

	tmp := t.TempDir()
	err := a.Assemble(context.Background(), s, tmp, filepath.Join(tmp, "ep.mp3"))
	require.ErrorIs(t, err, ErrEmptyEpisode)
}

func TestVoiceMapThirdSpeakerError(t *testing.T) {
	m := NewVoiceMap("a", "b")

	v1, err := m.VoiceFor("Alex")
	require.NoError(t, err)
	v2, err := m.VoiceFor("Sam")
	require.NoError(t, err)
	assert.Equal(t, "a", v1)
	assert.Equal(t, "b", v2)

	// Repeat lookups are stable.
	v1again, err := m.VoiceFor("Alex")
	require.NoError(t, err)
	assert.Equal(t, v1, v1again)

	_, err = m.VoiceFor("Jordan")
	require.ErrorIs(t, err, ErrTooManySpeakers)
}
