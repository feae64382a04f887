package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
)

type URLLoader struct{}

func (u *URLLoader) Load(ctx context.Context, arg string) (*Material, error) {
	parsed, err := url.Parse(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", arg, err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arg, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", arg, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch URL %s: %w", arg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not fetch URL %s: HTTP %d", arg, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxSourceSize)
	article, err := readability.FromReader(limited, parsed)
	if err != nil {
		return nil, fmt.Errorf("could not extract article from %s: %w", arg, err)
	}

	text := article.TextContent
	if len(text) == 0 {
		return nil, fmt.Errorf("no readable content extracted from %s", arg)
	}

	title := article.Title
	if title == "" {
		title = titleFromText(text, 80)
	}

	return &Material{
		Text:      text,
		Title:     title,
		Origin:    arg,
		WordCount: countWords(text),
	}, nil
}
