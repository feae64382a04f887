package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World! AI #1":          "hello-world-ai-1",
		"  spaced  out  ":              "spaced-out",
		"UPPER lower 42":               "upper-lower-42",
		"---already---hyphenated---":   "already-hyphenated",
		"Quantum Leap: What's Next???": "quantum-leap-what-s-next",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	slug := Slugify("Hello, World! AI #1")
	assert.Equal(t, slug, Slugify(slug))
}
