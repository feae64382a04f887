package script

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseScript turns a raw model reply into a Script. It tolerates markdown
// code fences and surrounding prose, then enforces the schema: description
// and dialogue must be present and non-empty. Title and pubDate may still be
// blank here; the writer fills generated defaults for those two fields only.
func ParseScript(text string) (*Script, error) {
	text = stripMarkdownFences(text)
	text = extractJSON(text)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("no JSON content found in response")
	}

	var s Script
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w (first 500 chars: %s)", err, truncate(text, 500))
	}

	if strings.TrimSpace(s.Description) == "" {
		return nil, fmt.Errorf("script is missing a description")
	}
	if len(s.Dialogue) == 0 {
		return nil, fmt.Errorf("script has no dialogue turns")
	}
	return &s, nil
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\n?```")

func stripMarkdownFences(text string) string {
	if m := fenceRe.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return text
}

// extractJSON slices from the first { to the last }, dropping any prose the
// model wrapped around the object.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
