package commands

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/haivivi/flowtts/pkg/audio/wav"
	"github.com/haivivi/flowtts/pkg/cli"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wav | s3://bucket/key>",
	Short: "Show the header of a WAV file",
	Long: `Decode the header of a WAV file and print its format.

Examples:
  flowtts inspect output.wav
  flowtts -c myctx inspect s3://my-bucket/tts/hello.wav --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cliCtx *cli.Context
		if ctx, err := getContext(); err == nil {
			cliCtx = ctx
		}

		store, loc, err := openLocation(cliCtx, args[0])
		if err != nil {
			return err
		}
		rc, err := store.Read(cmd.Context(), loc.Path)
		if err != nil {
			return fmt.Errorf("open %s: %w", loc, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return fmt.Errorf("read %s: %w", loc, err)
		}

		info, err := wav.Probe(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%s: %w", loc, err)
		}

		result := struct {
			Location  string    `json:"location" yaml:"location"`
			Bytes     int       `json:"bytes" yaml:"bytes"`
			Format    *wav.Info `json:"format" yaml:"format"`
			DataBytes int       `json:"data_bytes,omitempty" yaml:"data_bytes,omitempty"`
			Canonical bool      `json:"canonical" yaml:"canonical"`
		}{
			Location: loc.String(),
			Bytes:    len(data),
			Format:   info,
		}
		if payload, _, err := wav.Payload(data); err == nil {
			result.DataBytes = len(payload)
			result.Canonical = true
		}
		return outputResult(result)
	},
}
