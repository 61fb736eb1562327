// Package iox holds cleanup helpers for files and other closers whose
// teardown errors cannot be acted on.
package iox

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// DiscardClose closes c and drops the error.
//
//	defer iox.DiscardClose(f)
func DiscardClose(c io.Closer) { _ = c.Close() }

// DiscardErr calls fn and drops the returned error, e.g. for a deferred Flush.
func DiscardErr(fn func() error) { _ = fn() }

// DiscardRemove removes path and drops the error.
// Transient subgraph files and partial reports are cleaned up this way.
func DiscardRemove(path string) { _ = os.Remove(path) }

// RemoveIfExists removes path, treating a missing file as success.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
