package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/newscastfm/newscast/internal/script"
)

// Metadata describes the episode being published. Slug is optional; a blank
// slug is derived from the title.
type Metadata struct {
	Title       string
	Description string
	PubDate     string
	Slug        string
}

// Publisher uploads mastered episodes, maintains the episode catalog, and
// regenerates the feed. Host is optional; when set, every publish also
// pushes the audio to the podcast host.
type Publisher struct {
	store ObjectStore
	feed  FeedConfig
	host  HostClient
	log   *slog.Logger
	now   func() time.Time
}

func NewPublisher(store ObjectStore, feed FeedConfig, host HostClient, log *slog.Logger) *Publisher {
	return &Publisher{
		store: store,
		feed:  feed,
		host:  host,
		log:   log,
		now:   time.Now,
	}
}

// Publish uploads the audio file, prepends the episode to the catalog,
// rebuilds the feed, and optionally pushes to the podcast host. Every step
// fails loudly; nothing is recorded unless the audio upload succeeded.
// Returns the episode's public URL.
func (p *Publisher) Publish(ctx context.Context, audioPath string, meta Metadata) (string, error) {
	slug := meta.Slug
	if slug == "" {
		slug = Slugify(meta.Title)
	}
	if slug == "" {
		return "", fmt.Errorf("cannot derive a slug from title %q", meta.Title)
	}

	pubDate := meta.PubDate
	if pubDate == "" {
		pubDate = p.now().UTC().Format(script.PubDateFormat)
	}

	key := "episodes/" + slug + ".mp3"
	size, err := p.store.UploadFile(ctx, key, audioPath, "audio/mpeg")
	if err != nil {
		return "", fmt.Errorf("upload episode audio: %w", err)
	}
	url := p.store.PublicURL(key)
	p.log.Info("episode audio uploaded", "key", key, "bytes", size)

	id, err := NewEpisodeID()
	if err != nil {
		return "", err
	}

	episodes, err := LoadCatalog(ctx, p.store)
	if err != nil {
		return "", err
	}

	// Newest first: the new record goes at the head.
	episodes = append([]Episode{{
		ID:          id,
		Title:       meta.Title,
		Description: meta.Description,
		PubDate:     pubDate,
		Slug:        slug,
		URL:         url,
		Bytes:       size,
	}}, episodes...)

	if err := SaveCatalog(ctx, p.store, episodes); err != nil {
		return "", err
	}

	feedXML, err := BuildFeed(p.feed, episodes, p.now())
	if err != nil {
		return "", fmt.Errorf("build feed: %w", err)
	}
	if err := p.store.Put(ctx, FeedKey, feedXML, "application/rss+xml"); err != nil {
		return "", fmt.Errorf("upload feed: %w", err)
	}
	p.log.Info("feed regenerated", "episodes", len(episodes))

	if p.host != nil {
		if err := p.host.Upload(ctx, audioPath, meta.Title, meta.Description); err != nil {
			return "", fmt.Errorf("push to podcast host: %w", err)
		}
		p.log.Info("episode pushed to podcast host", "title", meta.Title)
	}

	return url, nil
}
