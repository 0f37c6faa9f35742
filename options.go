package voxchunk

import (
	"github.com/kdalton/voxchunk/internal/codec"
	"github.com/kdalton/voxchunk/internal/vlog"
)

// WriterOption configures a Writer created by Create, following the
// teacher's WithChunks/WithCompression functional-option pattern.
type WriterOption func(*writerOptions)

type writerOptions struct {
	workers    int
	queueSlots int
	codec      codec.BlockCodec
	log        vlog.Logger
}

func defaultWriterOptions() *writerOptions {
	return &writerOptions{
		workers:    0, // 0 means "let Write pick runtime.NumCPU()"
		queueSlots: 4,
		log:        vlog.Nop{},
	}
}

// ReaderOption configures a Reader created by Open.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	workers int
	log     vlog.Logger
}

func defaultReaderOptions() *readerOptions {
	return &readerOptions{
		workers: 0,
		log:     vlog.Nop{},
	}
}

// WithWorkerCount sets the number of compression worker goroutines a
// Writer uses. n <= 0 leaves the default in place.
func WithWorkerCount(n int) WriterOption {
	return func(o *writerOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithReaderWorkerCount is WithWorkerCount for a Reader.
func WithReaderWorkerCount(n int) ReaderOption {
	return func(o *readerOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithQueueSlots sets the number of in-flight compressed blocks each
// writer worker's queue can hold before applying backpressure.
func WithQueueSlots(n int) WriterOption {
	return func(o *writerOptions) {
		if n > 0 {
			o.queueSlots = n
		}
	}
}

// WithCodec overrides the codec a Writer compresses blocks with. The
// codec's Tag() is recorded in the container's header so Open can select
// the matching codec automatically; callers never pass a codec to Open.
func WithCodec(c codec.BlockCodec) WriterOption {
	return func(o *writerOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger attaches a logger a Writer reports per-block progress and
// errors to.
func WithLogger(l vlog.Logger) WriterOption {
	return func(o *writerOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithReaderLogger is WithLogger for a Reader.
func WithReaderLogger(l vlog.Logger) ReaderOption {
	return func(o *readerOptions) {
		if l != nil {
			o.log = l
		}
	}
}
