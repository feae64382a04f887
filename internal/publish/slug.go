package publish

import (
	"regexp"
	"strings"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a filesystem/URL-safe identifier from a title: lowercase,
// non-alphanumeric runs collapsed to a single hyphen, leading and trailing
// hyphens trimmed. Idempotent.
func Slugify(title string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
