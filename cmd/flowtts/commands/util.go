package commands

import (
	"fmt"
	"time"

	"github.com/haivivi/flowtts/pkg/cli"
	"github.com/haivivi/flowtts/pkg/flowtts"
	"github.com/haivivi/flowtts/pkg/history"
	"github.com/haivivi/flowtts/pkg/kv"
	"github.com/haivivi/flowtts/pkg/storage"
)

// createClient creates a FlowTTS API client from context configuration
func createClient(ctx *cli.Context) *flowtts.Client {
	var opts []flowtts.Option

	if ctx.Endpoint != "" {
		opts = append(opts, flowtts.WithEndpoint(ctx.Endpoint))
	}
	if ctx.Region != "" {
		opts = append(opts, flowtts.WithRegion(ctx.Region))
	}

	return flowtts.NewClient(flowtts.Credentials{
		SecretID:  ctx.SecretID,
		SecretKey: ctx.SecretKey,
		SdkAppID:  ctx.SdkAppID,
	}, opts...)
}

// openLocation parses a local path or s3:// URL and opens the store behind
// it. S3 locations need S3 settings in the context.
func openLocation(ctx *cli.Context, location string) (storage.FileStore, storage.Location, error) {
	loc, err := storage.ParseLocation(location)
	if err != nil {
		return nil, storage.Location{}, err
	}

	var s3Client storage.S3Client
	if loc.Scheme == "s3" {
		if ctx == nil || ctx.S3 == nil {
			return nil, loc, fmt.Errorf("%s: context has no S3 settings, see 'flowtts config add-context --help'", loc)
		}
		s3Client = storage.NewS3Client(storage.S3Config{
			Region:          ctx.S3.Region,
			Endpoint:        ctx.S3.Endpoint,
			AccessKeyID:     ctx.S3.AccessKeyID,
			SecretAccessKey: ctx.S3.SecretAccessKey,
			UsePathStyle:    ctx.S3.UsePathStyle,
		})
	}

	store, err := loc.Open(s3Client)
	if err != nil {
		return nil, loc, err
	}
	return store, loc, nil
}

// openLedger opens the on-disk history ledger. The caller must call the
// returned close function.
func openLedger() (*history.Ledger, func() error, error) {
	paths, err := cli.NewPaths(appName)
	if err != nil {
		return nil, nil, err
	}
	if err := paths.EnsureDataDir(); err != nil {
		return nil, nil, err
	}
	store, err := kv.NewBadger(kv.BadgerOptions{Dir: paths.HistoryDir()})
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	return history.New(store, kv.Key{"jobs"}), store.Close, nil
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	return cli.FormatDuration(d)
}
