package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"unicode/utf8"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"github.com/haivivi/flowtts/pkg/cli"
	"github.com/haivivi/flowtts/pkg/flowtts"
	"github.com/haivivi/flowtts/pkg/history"
)

// defaultOutput is used when -o is not given.
const defaultOutput = "output.wav"

var (
	synthText       string
	synthVoice      string
	synthSpeed      float64
	synthVolume     float64
	synthPitch      int
	synthLanguage   string
	synthSampleRate int
	synthTimeout    int
	synthNoHistory  bool
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Synthesize speech from text",
	Long: `Synthesize speech from text and save it as a WAV file.

The request can be given with flags, a request file, or both; flags win.
The output location is a local path or s3://bucket/key (default output.wav).
Nothing is written unless synthesis succeeds.

Example request file (speech.yaml):
  text: 你好，欢迎使用语音合成。
  voice_id: v-female-R2s4N9qJ
  speed: 1.0
  volume: 1.0
  pitch: 0
  language: zh
  sample_rate: 24000
  timeout: 120

Examples:
  flowtts synthesize --text "Hello" -o hello.wav
  flowtts -c myctx synthesize -f speech.yaml -o s3://my-bucket/tts/hello.wav
  flowtts synthesize -f speech.yaml --json --query .location`,
	RunE: runSynthesize,
}

var synthesizeSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of request files",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := jsonschema.For[flowtts.SynthesizeRequest](&jsonschema.ForOptions{})
		if err != nil {
			return fmt.Errorf("build schema: %w", err)
		}
		return cli.Output(schema, cli.OutputOptions{
			Format: cli.FormatJSON,
			Query:  query,
		})
	},
}

// synthesizeResult is the structured output of a successful synthesis.
type synthesizeResult struct {
	ID          string `json:"id" yaml:"id"`
	Location    string `json:"location" yaml:"location"`
	Bytes       int    `json:"bytes" yaml:"bytes"`
	PCMBytes    int    `json:"pcm_bytes" yaml:"pcm_bytes"`
	SampleRate  int    `json:"sample_rate" yaml:"sample_rate"`
	Frames      int    `json:"frames" yaml:"frames"`
	Skipped     int    `json:"skipped_events,omitempty" yaml:"skipped_events,omitempty"`
	ExplicitEnd bool   `json:"explicit_end" yaml:"explicit_end"`
	Duration    string `json:"duration" yaml:"duration"`
}

// buildRequest merges the request file and flags.
func buildRequest(cmd *cobra.Command, ctx *cli.Context) (*flowtts.SynthesizeRequest, error) {
	var req flowtts.SynthesizeRequest
	if inputFile != "" {
		if err := cli.LoadRequest(inputFile, &req); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("text") {
		req.Text = synthText
	}
	if flags.Changed("voice") {
		req.VoiceID = synthVoice
	}
	if flags.Changed("speed") {
		s := synthSpeed
		req.Speed = &s
	}
	if flags.Changed("volume") {
		v := synthVolume
		req.Volume = &v
	}
	if flags.Changed("pitch") {
		req.Pitch = synthPitch
	}
	if flags.Changed("language") {
		req.Language = synthLanguage
	}
	if flags.Changed("sample-rate") {
		req.SampleRate = synthSampleRate
	}
	if flags.Changed("timeout") {
		req.TimeoutSeconds = synthTimeout
	}

	if req.VoiceID == "" {
		req.VoiceID = ctx.DefaultVoice
	}
	if req.TimeoutSeconds == 0 {
		req.TimeoutSeconds = ctx.Timeout
	}

	if req.Text == "" && inputFile == "" {
		return nil, fmt.Errorf("text is required, use --text or -f")
	}
	return &req, nil
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	cliCtx, err := getContext()
	if err != nil {
		return err
	}

	req, err := buildRequest(cmd, cliCtx)
	if err != nil {
		return err
	}
	full := req.WithDefaults()

	location := outputFile
	if location == "" {
		location = defaultOutput
	}
	store, loc, err := openLocation(cliCtx, location)
	if err != nil {
		return err
	}

	slog.Debug("synthesize", "context", cliCtx.Name, "voice", full.VoiceID,
		"sample_rate", full.SampleRate, "text_len", utf8.RuneCountInString(full.Text), "output", loc.String())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client := createClient(cliCtx)
	res, synthErr := client.SynthesizeTo(ctx, req, store, loc.Path)

	rec := history.Record{
		VoiceID:    full.VoiceID,
		SampleRate: full.SampleRate,
		TextLength: utf8.RuneCountInString(full.Text),
		Location:   loc.String(),
	}
	if synthErr != nil {
		rec.Outcome = history.OutcomeFailed
		rec.Message = synthErr.Error()
		if se, ok := flowtts.AsSynthesisError(synthErr); ok {
			rec.ErrorKind = se.Kind.String()
		}
	} else {
		rec.Outcome = history.OutcomeOK
		rec.Bytes = len(res.Audio)
		rec.Frames = res.Frames
		rec.Duration = res.Duration
	}
	rec = recordHistory(rec)

	if synthErr != nil {
		return synthErr
	}

	if !res.Explicit {
		cli.PrintWarning("Stream ended without an end marker; audio may be incomplete")
	}
	cli.PrintSuccess("Audio saved to: %s (%s, %s)", loc, cli.FormatBytes(int64(len(res.Audio))), formatDuration(res.Duration))

	return outputResult(synthesizeResult{
		ID:          rec.ID,
		Location:    loc.String(),
		Bytes:       len(res.Audio),
		PCMBytes:    res.PCMBytes,
		SampleRate:  res.Format.SampleRate(),
		Frames:      res.Frames,
		Skipped:     res.Skipped,
		ExplicitEnd: res.Explicit,
		Duration:    res.Duration.String(),
	})
}

// recordHistory appends rec to the ledger. Failures are logged, never
// returned: the ledger must not turn a finished synthesis into an error.
func recordHistory(rec history.Record) history.Record {
	if synthNoHistory {
		return rec
	}
	ledger, closeLedger, err := openLedger()
	if err != nil {
		slog.Warn("history unavailable", "err", err)
		return rec
	}
	defer closeLedger()

	stored, err := ledger.Append(context.Background(), rec)
	if err != nil {
		slog.Warn("history append failed", "err", err)
		return rec
	}
	return stored
}

func init() {
	f := synthesizeCmd.Flags()
	f.StringVar(&synthText, "text", "", "text to synthesize")
	f.StringVar(&synthVoice, "voice", "", "voice ID (default from context, then "+flowtts.DefaultVoiceID+")")
	f.Float64Var(&synthSpeed, "speed", 1.0, "speech speed [0.5, 2.0]")
	f.Float64Var(&synthVolume, "volume", 1.0, "volume [0, 10]")
	f.IntVar(&synthPitch, "pitch", 0, "pitch in semitones [-12, 12]")
	f.StringVar(&synthLanguage, "language", flowtts.DefaultLanguage, "language: zh, en, yue, ja, ko, auto")
	f.IntVar(&synthSampleRate, "sample-rate", flowtts.DefaultSampleRate, "sample rate: 16000 or 24000")
	f.IntVar(&synthTimeout, "timeout", 0, "request timeout in seconds [10, 300] (default 120)")
	f.BoolVar(&synthNoHistory, "no-history", false, "do not record this job in the history ledger")

	synthesizeCmd.AddCommand(synthesizeSchemaCmd)
}
