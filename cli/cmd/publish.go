package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/justapithecus/pathbench/adapter"
	"github.com/justapithecus/pathbench/adapter/redis"
	"github.com/justapithecus/pathbench/adapter/webhook"
	"github.com/justapithecus/pathbench/cli/config"
	"github.com/justapithecus/pathbench/iox"
	"github.com/justapithecus/pathbench/lode"
	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/types"
)

// archiveReport stores the report in the configured Lode dataset and
// returns the partition it landed in.
func archiveReport(ctx context.Context, opts *runOptions, report *types.Report, reportPath string, collector *metrics.Collector) (string, error) {
	cfg := lode.ConfigFor(opts.storage.Dataset, report)

	var client *lode.LodeClient
	var err error
	switch opts.storage.Backend {
	case "fs":
		if err := os.MkdirAll(opts.storage.Path, 0o755); err != nil {
			return "", lode.WrapInitError(err, opts.storage.Path)
		}
		client, err = lode.NewLodeClient(cfg, opts.storage.Path)
	case "s3":
		bucket, prefix := lode.ParseS3Path(opts.storage.Path)
		client, err = lode.NewLodeS3Client(ctx, cfg, lode.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       opts.storage.Region,
			Endpoint:     opts.storage.Endpoint,
			UsePathStyle: opts.storage.S3PathStyle,
		})
	default:
		return "", fmt.Errorf("unknown storage backend %q", opts.storage.Backend)
	}
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		return "", fmt.Errorf("read report for archive: %w", err)
	}
	doc := &lode.Document{
		Filename:    filepath.Base(reportPath),
		ContentType: opts.format.ContentType(),
		Data:        data,
	}

	archive := lode.NewInstrumentedClient(client, collector)
	defer iox.DiscardClose(archive)
	if err := archive.WriteReport(ctx, report, doc); err != nil {
		return "", err
	}
	return client.PartitionPath(), nil
}

// newAdapter builds the configured notification adapter.
func newAdapter(cfg config.AdapterConfig) (adapter.Adapter, error) {
	switch cfg.Type {
	case "webhook":
		wcfg := webhook.Config{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Timeout: cfg.Timeout.Duration,
			Retries: webhook.DefaultRetries,
		}
		if cfg.Retries != nil {
			wcfg.Retries = *cfg.Retries
		}
		return webhook.New(wcfg)
	case "redis":
		rcfg := redis.Config{
			URL:        cfg.URL,
			Channel:    cfg.Channel,
			HistoryKey: cfg.HistoryKey,
			Timeout:    cfg.Timeout.Duration,
			Retries:    redis.DefaultRetries,
		}
		if cfg.Retries != nil {
			rcfg.Retries = *cfg.Retries
		}
		return redis.New(rcfg)
	default:
		return nil, fmt.Errorf("unknown adapter type %q", cfg.Type)
	}
}

// notify publishes a run_completed event. Failures are reported to the
// caller, which only logs them: the report is already saved.
func notify(ctx context.Context, cfg config.AdapterConfig, report *types.Report, reportPath, archivePath string) error {
	a, err := newAdapter(cfg)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(a)

	abs, err := filepath.Abs(reportPath)
	if err != nil {
		abs = reportPath
	}
	return a.Publish(ctx, adapter.NewRunCompletedEvent(report, abs, archivePath))
}
