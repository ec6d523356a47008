// Command huddlectl is the operator tool for a goHuddleUp deployment: it mints
// API keys, migrates and seeds the store and bootstraps the first admin.
package main

import (
	"os"

	"gohuddleup/internal/config"
)

func main() {
	if err := newRootCommand(config.Load).Execute(); err != nil {
		os.Exit(1)
	}
}
