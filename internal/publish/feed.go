package publish

import (
	"fmt"
	"time"

	"github.com/eduncan911/podcast"

	"github.com/newscastfm/newscast/internal/script"
)

// FeedKey is the fixed, well-known storage key of the RSS document.
const FeedKey = "rss.xml"

// FeedConfig holds the channel-level metadata.
type FeedConfig struct {
	Title       string
	Link        string
	Description string
}

// BuildFeed renders the RSS 2.0 document from the full episode catalog. The
// feed is rebuilt from scratch on every publish, one item per episode in
// catalog order (newest first).
func BuildFeed(cfg FeedConfig, episodes []Episode, now time.Time) ([]byte, error) {
	feed := podcast.New(cfg.Title, cfg.Link, cfg.Description, &now, &now)

	for _, ep := range episodes {
		pubDate, err := time.Parse(script.PubDateFormat, ep.PubDate)
		if err != nil {
			// Catalog entries written by older runs may carry odd timestamps;
			// the feed still has to render.
			pubDate = now
		}

		item := podcast.Item{
			Title:       ep.Title,
			Description: ep.Description,
			PubDate:     &pubDate,
			GUID:        ep.ID,
		}
		item.AddEnclosure(ep.URL, podcast.MP3, ep.Bytes)

		if _, err := feed.AddItem(item); err != nil {
			return nil, fmt.Errorf("add feed item %q: %w", ep.Title, err)
		}
	}

	return feed.Bytes(), nil
}
