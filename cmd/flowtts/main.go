// Package main provides the FlowTTS CLI tool.
//
// Usage:
//
//	flowtts [flags] <command> [args]
//
// Commands:
//
//	synthesize - Synthesize speech to a WAV file (local or s3://)
//	inspect    - Show the header of a WAV file
//	history    - List past synthesis jobs
//	config     - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.flowtts/flowtts/
//	Use 'flowtts config' commands to manage contexts.
package main

import (
	"os"

	"github.com/haivivi/flowtts/cmd/flowtts/commands"
	"github.com/haivivi/flowtts/pkg/cli"
)

func main() {
	if err := commands.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
