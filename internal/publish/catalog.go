package publish

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// CatalogKey is the fixed storage key of the persisted episode list.
const CatalogKey = "episodes.json"

// Episode is the persisted metadata for one published episode. The catalog
// is an ordered JSON array of these, newest first, rewritten wholesale on
// every publish.
type Episode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	Bytes       int64  `json:"bytes"`
}

// NewEpisodeID generates a ULID used as the catalog ID and feed GUID.
func NewEpisodeID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate ulid: %w", err)
	}
	return id.String(), nil
}

// LoadCatalog reads the episode list from storage. A missing catalog object
// is an empty list, not an error.
func LoadCatalog(ctx context.Context, store ObjectStore) ([]Episode, error) {
	data, err := store.Get(ctx, CatalogKey)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var episodes []Episode
	if err := json.Unmarshal(data, &episodes); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", CatalogKey, err)
	}
	return episodes, nil
}

// SaveCatalog rewrites the whole episode list.
func SaveCatalog(ctx context.Context, store ObjectStore, episodes []Episode) error {
	data, err := json.MarshalIndent(episodes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := store.Put(ctx, CatalogKey, data, "application/json"); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}
