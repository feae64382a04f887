package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const buzzsproutBaseURL = "https://api.buzzsprout.com/v2"

// HostClient pushes a finished episode to a third-party podcast host.
type HostClient interface {
	Upload(ctx context.Context, mp3Path, title, description string) error
}

// Buzzsprout implements HostClient against the Buzzsprout episodes API.
// Success is 201; any other status is logged and returned as an error,
// never swallowed.
type Buzzsprout struct {
	podcastID  string
	token      string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewBuzzsprout(podcastID, token string, log *slog.Logger) *Buzzsprout {
	return &Buzzsprout{
		podcastID:  podcastID,
		token:      token,
		baseURL:    buzzsproutBaseURL,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		log:        log,
	}
}

func (b *Buzzsprout) Upload(ctx context.Context, mp3Path, title, description string) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("title", title); err != nil {
		return fmt.Errorf("write title field: %w", err)
	}
	if err := mw.WriteField("description", description); err != nil {
		return fmt.Errorf("write description field: %w", err)
	}

	part, err := mw.CreateFormFile("audio_file", filepath.Base(mp3Path))
	if err != nil {
		return fmt.Errorf("create audio form file: %w", err)
	}
	f, err := os.Open(mp3Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", mp3Path, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		f.Close()
		return fmt.Errorf("copy audio into form: %w", err)
	}
	f.Close()
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/podcasts/%s/episodes.json", b.baseURL, b.podcastID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Token token=%s", b.token))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	res, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		b.log.Error("buzzsprout upload rejected",
			"status", res.StatusCode,
			"body", string(respBody),
		)
		return fmt.Errorf("Buzzsprout upload failed (status %d): %s", res.StatusCode, string(respBody))
	}
	return nil
}
