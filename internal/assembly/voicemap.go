package assembly

import (
	"errors"
	"fmt"
)

// ErrTooManySpeakers means the dialogue contains a third distinct speaker;
// the two-voice episode model cannot represent it.
var ErrTooManySpeakers = errors.New("dialogue has more than two distinct speakers")

// VoiceMap assigns the two configured voices to speakers in first-seen
// order: the first speaker encountered gets voice A, the second voice B.
// Once both slots are filled the mapping is immutable.
type VoiceMap struct {
	voiceA   string
	voiceB   string
	assigned map[string]string
	order    []string
}

func NewVoiceMap(voiceA, voiceB string) *VoiceMap {
	return &VoiceMap{
		voiceA:   voiceA,
		voiceB:   voiceB,
		assigned: make(map[string]string, 2),
	}
}

// VoiceFor returns the voice ID for speaker, assigning a free slot on first
// sight. A third distinct speaker is fatal.
func (m *VoiceMap) VoiceFor(speaker string) (string, error) {
	if v, ok := m.assigned[speaker]; ok {
		return v, nil
	}
	switch len(m.assigned) {
	case 0:
		m.assigned[speaker] = m.voiceA
	case 1:
		m.assigned[speaker] = m.voiceB
	default:
		return "", fmt.Errorf("%w: %v and %q", ErrTooManySpeakers, m.order, speaker)
	}
	m.order = append(m.order, speaker)
	return m.assigned[speaker], nil
}

// Speakers returns the speakers seen so far, in assignment order.
func (m *VoiceMap) Speakers() []string {
	return m.order
}
