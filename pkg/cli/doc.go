// Package cli provides common CLI utilities for the sonify command line.
//
// This package includes:
//   - Configuration management (contexts holding API keys and defaults)
//   - Output formatting (YAML, JSON, lipgloss tables)
//   - Request file loading (YAML/JSON)
//   - Well-known directories for config, cache and rendered artifacts
//
// Configuration is stored in ~/.singing-materials/<app>/, supporting
// multiple contexts similar to kubectl.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("sonify")
//
//	ctx, err := cfg.ResolveContext("")
//	apiKey := ctx.ResolveAPIKey()
//
//	cli.Output(results, cli.OutputOptions{Format: cli.FormatJSON})
package cli
