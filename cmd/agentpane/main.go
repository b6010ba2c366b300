// Package main is the entry point for agentpane - an embedded terminal
// pane shared between a human and an AI agent.
package main

import (
	"os"

	"github.com/Dicklesworthstone/agentpane/cmd/agentpane/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
