// Package pipeline implements the writer and reader block pipelines
// (spec.md §4.4, §4.5): a worker pool plus, for writes, one I/O thread
// that serializes compressed blocks to disk in canonical block-id order.
package pipeline

import "sync"

// ErrCell is the single write-once error slot shared by every worker and
// (for writes) the I/O thread, per spec.md §4.6. The first error recorded
// wins; later ones are discarded. Once set, Cancelled reports true so
// every goroutine can check it at its next checkpoint and stop promptly.
type ErrCell struct {
	mu  sync.Mutex
	err error
}

// Set records err if no error has been recorded yet. It reports whether
// this call was the one that recorded it.
func (c *ErrCell) Set(err error) bool {
	if err == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false
	}
	c.err = err
	return true
}

// Err returns the recorded error, or nil if none has been set.
func (c *ErrCell) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Cancelled reports whether an error has been recorded, i.e. whether the
// rest of the pipeline should stop at its next checkpoint.
func (c *ErrCell) Cancelled() bool {
	return c.Err() != nil
}
