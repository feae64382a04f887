package main

import (
	"os"

	"github.com/newscastfm/newscast/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
