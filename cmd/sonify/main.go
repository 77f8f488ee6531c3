// Package main provides the sonify CLI tool.
//
// Usage:
//
//	sonify [flags] <command> [args]
//
// Commands:
//
//	play     - Play the thermally excited phonon modes of materials
//	mesh     - Play the Γ-point modes of a phonopy mesh.yaml
//	plot     - Render a density of states plot
//	serve    - Serve the web form
//	cache    - Inspect or clear the API response cache
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.singing-materials/sonify/
//	Use 'sonify config' commands to manage contexts. The API key may
//	also be given as MP_API_KEY in the environment or a .env file.
package main

import (
	"fmt"
	"os"

	"github.com/NU-CEM/singing-materials-online/cmd/sonify/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
