package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScriptJSON = `{
  "title": "The Week in AI",
  "description": "Alex and Sam on the latest model releases.",
  "pubDate": "Mon, 31 Aug 2026 09:00:00 +0000",
  "dialogue": [
    {"speaker": "Alex", "time": "00:00", "text": "Welcome back to the show."},
    {"speaker": "Sam", "time": "00:12", "text": "Great to be here."}
  ]
}`

func TestParseScript(t *testing.T) {
	s, err := ParseScript(validScriptJSON)
	require.NoError(t, err)
	assert.Equal(t, "The Week in AI", s.Title)
	assert.Len(t, s.Dialogue, 2)
	assert.Equal(t, "Sam", s.Dialogue[1].Speaker)
}

func TestParseScriptStripsFences(t *testing.T) {
	fenced := "```json\n" + validScriptJSON + "\n```"
	s, err := ParseScript(fenced)
	require.NoError(t, err)
	assert.Equal(t, "The Week in AI", s.Title)
}

func TestParseScriptExtractsFromProse(t *testing.T) {
	wrapped := "Here is the episode you asked for:\n" + validScriptJSON + "\nLet me know if you need changes."
	s, err := ParseScript(wrapped)
	require.NoError(t, err)
	assert.Len(t, s.Dialogue, 2)
}

func TestParseScriptRejectsMissingDescription(t *testing.T) {
	_, err := ParseScript(`{"title":"t","pubDate":"d","dialogue":[{"speaker":"Alex","time":"00:00","text":"hi"}]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestParseScriptRejectsEmptyDialogue(t *testing.T) {
	_, err := ParseScript(`{"title":"t","description":"d","pubDate":"p","dialogue":[]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dialogue")
}

func TestParseScriptRejectsNonJSON(t *testing.T) {
	_, err := ParseScript("I could not produce an episode today, sorry.")
	require.Error(t, err)
}
