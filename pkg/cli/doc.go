// Package cli provides common utilities for the flowtts command-line tool.
//
// This package includes:
//   - Configuration management (contexts holding BYOK credentials)
//   - Output formatting (JSON, YAML, raw) with optional jq queries
//   - Request file loading (YAML/JSON)
//   - Styled terminal status lines
//
// Configuration is stored in ~/.flowtts/<app>/ directory, supporting
// multiple contexts similar to kubectl.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("flowtts")
//
//	ctx, err := cfg.ResolveContext("")
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    Query:  ".location",
//	})
package cli
