// ==============================================================================
// MINI-APPS CLI - cmd/miniapps/main.go
// ==============================================================================
package main

import (
	"os"

	"viralcoin/cmd/miniapps/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
