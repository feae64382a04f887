package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type TextLoader struct{}

func (t *TextLoader) Load(ctx context.Context, arg string) (*Material, error) {
	if err := validateFile(arg); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", arg, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file %s is empty", arg)
	}

	text := string(data)
	return &Material{
		Text:      text,
		Title:     titleFromText(text, 80),
		Origin:    filepath.Base(arg),
		WordCount: countWords(text),
	}, nil
}
