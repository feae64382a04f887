package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *ElevenLabsProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p := NewElevenLabsProvider("test-key")
	p.baseURL = srv.URL
	return p
}

func TestSynthesizeWritesAudioStream(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("fake-mp3-bytes"))
	})

	out := filepath.Join(t.TempDir(), "turn.mp3")
	require.NoError(t, p.Synthesize(context.Background(), "hello", "voice-a", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "fake-mp3-bytes", string(data))
}

func TestSynthesizeRejectsNonAudioContentType(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>quota exceeded</html>"))
	})

	out := filepath.Join(t.TempDir(), "turn.mp3")
	err := p.Synthesize(context.Background(), "hello", "voice-a", out)

	var synthErr *SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, "text/html", synthErr.ContentType)
	assert.Contains(t, synthErr.Snippet, "quota exceeded")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no file may be left behind on synthesis failure")
}

func TestSynthesizeRejectsErrorStatus(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid api key"}`))
	})

	out := filepath.Join(t.TempDir(), "turn.mp3")
	err := p.Synthesize(context.Background(), "hello", "voice-a", out)

	var synthErr *SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, http.StatusUnauthorized, synthErr.StatusCode)
}

func TestSynthesizeRequiresVoiceID(t *testing.T) {
	p := NewElevenLabsProvider("test-key")
	err := p.Synthesize(context.Background(), "hello", "", "out.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voice ID")
}
