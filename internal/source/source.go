// Package source loads grounding material for script generation. A source
// argument is a URL, a PDF path, or a plain text file; the loader is picked
// by inspecting the argument.
package source

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type Kind string

const (
	KindURL  Kind = "url"
	KindPDF  Kind = "pdf"
	KindText Kind = "text"

	// maxSourceSize caps any single source at 25 MB.
	maxSourceSize = 25 * 1024 * 1024

	// excerptWords caps how much of one source goes into the prompt. The
	// model gets the opening of each document, which for news copy carries
	// the substance.
	excerptWords = 2000
)

func (k Kind) String() string { return string(k) }

// Material is one loaded source ready for prompt assembly.
type Material struct {
	Text      string
	Title     string
	Origin    string
	WordCount int
}

// Loader turns a source argument into Material.
type Loader interface {
	Load(ctx context.Context, arg string) (*Material, error)
}

func DetectKind(arg string) Kind {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return KindURL
	}
	if strings.HasSuffix(strings.ToLower(arg), ".pdf") {
		return KindPDF
	}
	return KindText
}

func NewLoader(arg string) Loader {
	switch DetectKind(arg) {
	case KindURL:
		return &URLLoader{}
	case KindPDF:
		return &PDFLoader{}
	default:
		return &TextLoader{}
	}
}

// Gather loads every source argument in order. Any failure aborts the run;
// a script grounded on half its sources is worse than no script.
func Gather(ctx context.Context, args []string) ([]*Material, error) {
	materials := make([]*Material, 0, len(args))
	for _, arg := range args {
		m, err := NewLoader(arg).Load(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("loading source %s: %w", arg, err)
		}
		materials = append(materials, m)
	}
	return materials, nil
}

// PromptBlocks renders each material as a prompt-ready block, headed by its
// title and origin and truncated to excerptWords words.
func PromptBlocks(materials []*Material) []string {
	blocks := make([]string, 0, len(materials))
	for _, m := range materials {
		blocks = append(blocks, fmt.Sprintf("%s (%s)\n%s", m.Title, m.Origin, excerpt(m.Text, excerptWords)))
	}
	return blocks
}

func excerpt(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[:maxWords], " ") + " ..."
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

func titleFromText(text string, maxLen int) string {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx > 0 {
		line = text[:idx]
	}
	line = strings.TrimSpace(line)
	if len(line) > maxLen {
		line = line[:maxLen] + "..."
	}
	if line == "" {
		return "Untitled"
	}
	return line
}

func validateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() > maxSourceSize {
		return fmt.Errorf("%s is too large (%d MB, max %d MB)", path, info.Size()/(1024*1024), maxSourceSize/(1024*1024))
	}
	return nil
}
