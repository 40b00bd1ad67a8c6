package main

import (
	"os"

	"github.com/wanders/git-sleipnir/cmd/git-sleipnir/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
