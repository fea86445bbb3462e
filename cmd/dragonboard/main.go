package main

import (
	"os"

	"github.com/wonny/dragonboard/cmd/dragonboard/commands"
)

// main is the entry point for the dragonboard CLI
// ⭐ 统一 CLI 入口: go run ./cmd/dragonboard [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
