package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFLoader struct{}

func (p *PDFLoader) Load(ctx context.Context, arg string) (*Material, error) {
	if err := validateFile(arg); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("could not read PDF %s: %w", arg, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip pages that fail to extract
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if len(text) == 0 {
		return nil, fmt.Errorf("no text in PDF %s, it may be scanned or image-based", arg)
	}

	return &Material{
		Text:      text,
		Title:     titleFromText(text, 80),
		Origin:    filepath.Base(arg),
		WordCount: countWords(text),
	}, nil
}
