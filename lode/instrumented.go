package lode

import (
	"context"

	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/types"
)

// InstrumentedClient wraps a Client and counts archive writes on the
// metrics collector. One WriteReport call is one write.
type InstrumentedClient struct {
	inner     Client
	collector *metrics.Collector
}

// NewInstrumentedClient wraps a client with metrics instrumentation.
func NewInstrumentedClient(inner Client, collector *metrics.Collector) *InstrumentedClient {
	return &InstrumentedClient{inner: inner, collector: collector}
}

// WriteReport delegates to the inner client and records success or failure.
func (c *InstrumentedClient) WriteReport(ctx context.Context, report *types.Report, doc *Document) error {
	err := c.inner.WriteReport(ctx, report, doc)
	if err != nil {
		c.collector.IncLodeWriteFailure()
	} else {
		c.collector.IncLodeWriteSuccess()
	}
	return err
}

// Close delegates to the inner client.
func (c *InstrumentedClient) Close() error {
	return c.inner.Close()
}

// Verify InstrumentedClient implements Client.
var _ Client = (*InstrumentedClient)(nil)
