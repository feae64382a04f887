package publish

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ObjectStore.
type fakeStore struct {
	objects     map[string][]byte
	contentType map[string]string
	failUpload  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:     map[string][]byte{},
		contentType: map[string]string{},
	}
}

func (f *fakeStore) UploadFile(_ context.Context, key, path, contentType string) (int64, error) {
	if f.failUpload {
		return 0, errors.New("injected upload failure")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	f.objects[key] = data
	f.contentType[key] = contentType
	return int64(len(data)), nil
}

func (f *fakeStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	f.objects[key] = body
	f.contentType[key] = contentType
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	return f.objects[key], nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFakeMP3(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episode.mp3")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

var testFeed = FeedConfig{
	Title:       "Signal & Noise",
	Link:        "https://cdn.example.com/rss.xml",
	Description: "Automated AI co-hosted show",
}

// rssDoc is a minimal mirror of the feed shape for assertions.
type rssDoc struct {
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			Title     string `xml:"title"`
			GUID      string `xml:"guid"`
			Enclosure struct {
				URL    string `xml:"url,attr"`
				Length int64  `xml:"length,attr"`
				Type   string `xml:"type,attr"`
			} `xml:"enclosure"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestPublishUploadsAudioAndRegeneratesFeed(t *testing.T) {
	store := newFakeStore()
	p := NewPublisher(store, testFeed, nil, discardLogger())

	url, err := p.Publish(context.Background(), writeFakeMP3(t, "mp3data"), Metadata{
		Title:       "Hello, World! AI #1",
		Description: "First episode.",
		PubDate:     "Mon, 31 Aug 2026 09:00:00 +0000",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/episodes/hello-world-ai-1.mp3", url)

	assert.Equal(t, "audio/mpeg", store.contentType["episodes/hello-world-ai-1.mp3"])
	assert.Equal(t, "application/rss+xml", store.contentType[FeedKey])

	var doc rssDoc
	require.NoError(t, xml.Unmarshal(store.objects[FeedKey], &doc))
	require.Len(t, doc.Channel.Items, 1)
	assert.Equal(t, "Hello, World! AI #1", doc.Channel.Items[0].Title)
	assert.Equal(t, url, doc.Channel.Items[0].Enclosure.URL)
	assert.Equal(t, int64(len("mp3data")), doc.Channel.Items[0].Enclosure.Length)
	assert.Equal(t, "audio/mpeg", doc.Channel.Items[0].Enclosure.Type)
}

func TestPublishPrependsNewestFirst(t *testing.T) {
	store := newFakeStore()
	p := NewPublisher(store, testFeed, nil, discardLogger())

	for _, title := range []string{"Episode One", "Episode Two", "Episode Three"} {
		_, err := p.Publish(context.Background(), writeFakeMP3(t, title), Metadata{
			Title:       title,
			Description: "desc",
		})
		require.NoError(t, err)
	}

	var episodes []Episode
	require.NoError(t, json.Unmarshal(store.objects[CatalogKey], &episodes))
	require.Len(t, episodes, 3)
	assert.Equal(t, "Episode Three", episodes[0].Title, "head of the list is the most recent episode")
	assert.Equal(t, "Episode One", episodes[2].Title)

	// The feed carries one item per catalog entry, in the same order.
	var doc rssDoc
	require.NoError(t, xml.Unmarshal(store.objects[FeedKey], &doc))
	require.Len(t, doc.Channel.Items, 3)
	for i, ep := range episodes {
		assert.Equal(t, ep.Title, doc.Channel.Items[i].Title)
		assert.Equal(t, ep.ID, doc.Channel.Items[i].GUID)
	}
}

func TestPublishFailsLoudOnUploadError(t *testing.T) {
	store := newFakeStore()
	store.failUpload = true
	p := NewPublisher(store, testFeed, nil, discardLogger())

	_, err := p.Publish(context.Background(), writeFakeMP3(t, "x"), Metadata{
		Title:       "Doomed Episode",
		Description: "d",
	})
	require.Error(t, err)

	// No partial publish: neither catalog nor feed were touched.
	assert.NotContains(t, store.objects, CatalogKey)
	assert.NotContains(t, store.objects, FeedKey)
}

func TestPublishRejectsUnsluggableTitle(t *testing.T) {
	p := NewPublisher(newFakeStore(), testFeed, nil, discardLogger())
	_, err := p.Publish(context.Background(), writeFakeMP3(t, "x"), Metadata{
		Title:       "!!!",
		Description: "d",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slug")
}

func TestBuildFeedParsesCatalogPubDates(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	xmlBytes, err := BuildFeed(testFeed, []Episode{
		{ID: "01ABC", Title: "Ep", Description: "d", PubDate: "Mon, 31 Aug 2026 09:00:00 +0000", URL: "https://cdn.example.com/episodes/ep.mp3", Bytes: 10},
	}, now)
	require.NoError(t, err)
	assert.Contains(t, string(xmlBytes), "Mon, 31 Aug 2026 09:00:00 +0000")
}
