package lode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/justapithecus/lode/lode"

	"github.com/justapithecus/pathbench/types"
)

// LodeClient is a Lode-backed implementation of Client.
// Uses Lode's HiveLayout with partition keys: mode/day/run_id.
type LodeClient struct {
	dataset lode.Dataset
	config  Config

	storeFactory lode.StoreFactory
	storeOnce    sync.Once
	store        lode.Store
	storeErr     error
}

// NewLodeClient creates a Lode client with filesystem storage rooted at root.
// The root directory must already exist.
func NewLodeClient(cfg Config, root string) (*LodeClient, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, WrapInitError(err, cfg.Dataset)
	}
	if !info.IsDir() {
		return nil, NewStorageError(ErrNotFound, "init", root, errors.New("storage root is not a directory"))
	}
	return NewLodeClientWithFactory(cfg, lode.NewFSFactory(root))
}

// NewLodeClientWithFactory creates a Lode client with a custom store factory.
// Use lode.NewMemoryFactory() for testing.
func NewLodeClientWithFactory(cfg Config, factory lode.StoreFactory) (*LodeClient, error) {
	ds, err := newDataset(cfg.Dataset, factory)
	if err != nil {
		return nil, WrapInitError(err, cfg.Dataset)
	}
	return newClient(ds, cfg, factory), nil
}

func newClient(ds lode.Dataset, cfg Config, factory lode.StoreFactory) *LodeClient {
	return &LodeClient{dataset: ds, config: cfg, storeFactory: factory}
}

// newDataset builds the dataset with the layout and codec shared by
// writers and readers.
func newDataset(dataset string, factory lode.StoreFactory) (lode.Dataset, error) {
	return lode.NewDataset(
		lode.DatasetID(dataset),
		factory,
		lode.WithHiveLayout(partitionKeys...),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
}

// WriteReport writes the report record as one snapshot, then the sidecar
// document. Either failure is returned as a *StorageError.
func (c *LodeClient) WriteReport(ctx context.Context, report *types.Report, doc *Document) error {
	if report.RunID != c.config.RunID {
		return fmt.Errorf("report run_id %q does not match archive partition %q", report.RunID, c.config.RunID)
	}

	record, err := toReportRecordMap(report, c.config)
	if err != nil {
		return err
	}
	if _, err := c.dataset.Write(ctx, []any{record}, lode.Metadata{}); err != nil {
		return WrapWriteError(err, c.PartitionPath())
	}

	if doc == nil {
		return nil
	}
	if err := c.PutFile(ctx, doc.Filename, doc.ContentType, doc.Data); err != nil {
		return WrapWriteError(err, c.buildFilePath(doc.Filename))
	}
	return nil
}

// PutFile writes a sidecar file next to the run's partition.
// Uses lazy store initialization via storeFactory.
func (c *LodeClient) PutFile(ctx context.Context, filename, _ string, data []byte) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return fmt.Errorf("invalid sidecar filename %q", filename)
	}

	store, err := c.getOrCreateStore()
	if err != nil {
		return fmt.Errorf("file write store init failed: %w", err)
	}
	return store.Put(ctx, c.buildFilePath(filename), bytes.NewReader(data))
}

// getOrCreateStore lazily initializes the Store from the factory.
func (c *LodeClient) getOrCreateStore() (lode.Store, error) {
	c.storeOnce.Do(func() {
		c.store, c.storeErr = c.storeFactory()
	})
	return c.store, c.storeErr
}

// PartitionPath is the Hive partition of this run relative to the store root.
func (c *LodeClient) PartitionPath() string {
	return fmt.Sprintf("datasets/%s/partitions/mode=%s/day=%s/run_id=%s",
		c.config.Dataset, c.config.Mode, c.config.Day, c.config.RunID)
}

// buildFilePath computes the Hive-partitioned path for a sidecar file.
// Format: datasets/<dataset>/partitions/mode=<m>/day=<d>/run_id=<r>/files/<filename>
func (c *LodeClient) buildFilePath(filename string) string {
	return c.PartitionPath() + "/files/" + filename
}

// Close releases client resources.
func (c *LodeClient) Close() error {
	return nil
}

// Verify LodeClient implements Client.
var _ Client = (*LodeClient)(nil)
