package main

import (
	"os"

	"github.com/wonny/buildbid/backend/cmd/buildbid/commands"
)

// main is the entry point for the BuildBid CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/buildbid [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
