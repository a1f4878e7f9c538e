package main

import (
	"os"

	"github.com/wonny/fundlens/backend/cmd/fundlens/commands"
)

// main is the entry point for the FundLens CLI
// ⭐ 统一 CLI 入口：go run ./cmd/fundlens [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
