package publish

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuzzsprout(t *testing.T, handler http.HandlerFunc) *Buzzsprout {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	b := NewBuzzsprout("12345", "secret-token", discardLogger())
	b.baseURL = srv.URL
	return b
}

func TestBuzzsproutUpload(t *testing.T) {
	var gotAuth, gotTitle string
	b := newTestBuzzsprout(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTitle = r.FormValue("title")
		_, _, err := r.FormFile("audio_file")
		require.NoError(t, err)
		w.WriteHeader(http.StatusCreated)
	})

	err := b.Upload(context.Background(), writeFakeMP3(t, "mp3"), "Ep Title", "Ep description")
	require.NoError(t, err)
	assert.Equal(t, "Token token=secret-token", gotAuth)
	assert.Equal(t, "Ep Title", gotTitle)
}

func TestBuzzsproutUploadNon201IsFatal(t *testing.T) {
	b := newTestBuzzsprout(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"bad token"}`))
	})

	err := b.Upload(context.Background(), writeFakeMP3(t, "mp3"), "Ep", "d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "bad token")
}
