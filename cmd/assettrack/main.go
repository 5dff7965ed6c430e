package main

import (
	"os"

	"github.com/assettrack/assettrack/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
