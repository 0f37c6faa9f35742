package voxchunk

import (
	"fmt"
	"os"
	"runtime"

	"github.com/kdalton/voxchunk/internal/binary"
	"github.com/kdalton/voxchunk/internal/codec"
	"github.com/kdalton/voxchunk/internal/geometry"
	"github.com/kdalton/voxchunk/internal/header"
	"github.com/kdalton/voxchunk/internal/pipeline"
	"github.com/kdalton/voxchunk/internal/rafile"
)

// Writer creates a chunked, block-compressed image container in a single
// pass: Create opens the file and lays down its header, then one call to
// Write tiles, compresses, and appends every block before patching in the
// offset index — there is no separate Finalize/Close step, mirroring
// go-hdf5's Create, which likewise commits the superblock up front and
// leaves only Close to flush trailing bookkeeping.
type Writer struct {
	path  string
	file  *rafile.OSFile
	bw    *binary.Writer
	desc  Descriptor
	grid  geometry.Grid
	codec codec.BlockCodec
	opts  *writerOptions
	wrote bool
}

// Create creates a new container file at path for desc and writes its
// header. Call Write exactly once afterward to supply the pixel data; the
// file is removed if Write fails, since a header with no matching index is
// not a valid container. If Write is never called, the header-only file is
// left in place.
func Create(path string, desc Descriptor, opts ...WriterOption) (*Writer, error) {
	const op = "Create"

	o := defaultWriterOptions()
	for _, opt := range opts {
		opt(o)
	}

	grid, err := geometry.NewGrid(desc.Extent, desc.Block)
	if err != nil {
		return nil, newError(KindInvalidROI, op, err)
	}

	c := o.codec
	if c == nil {
		c, err = codec.ByID(uint8(desc.Compression))
		if err != nil {
			return nil, newError(KindCompressionFailed, op, err)
		}
	}
	if c.Tag() != uint8(desc.Compression) {
		return nil, newError(KindCompressionFailed, op,
			fmt.Errorf("codec tag %d does not match descriptor compression %d", c.Tag(), desc.Compression))
	}

	appendBase := header.HeaderLen(len(desc.Metadata))
	f, err := rafile.CreateOSFile(path, appendBase)
	if err != nil {
		return nil, newError(KindIO, op, err)
	}

	bw := binary.NewWriter(f)
	if err := header.WriteHeader(bw, toHeaderDescriptor(desc), 0); err != nil {
		f.Close()
		os.Remove(path)
		return nil, newError(KindIO, op, err)
	}

	return &Writer{
		path:  path,
		file:  f,
		bw:    bw,
		desc:  desc,
		grid:  grid,
		codec: c,
		opts:  o,
	}, nil
}

// Write compresses and writes src, the full image's pixels laid out in
// (x,y,z,c,t) order with x fastest, one element of desc.PixelType.ByteSize()
// bytes each. On success the container's offset index and header are
// finalized and the file is flushed; on failure the partial file is
// removed, matching the teacher's Create cleanup-on-error convention.
func (w *Writer) Write(src []byte) error {
	const op = "Write"

	if w.wrote {
		return newError(KindIO, op, fmt.Errorf("Write already called on this Writer"))
	}
	w.wrote = true

	elemSize := w.desc.PixelType.ByteSize()
	want := int(w.grid.Full().Count()) * elemSize
	if len(src) != want {
		w.abort()
		return newError(KindBufferTooSmall, op,
			fmt.Errorf("source buffer is %d bytes, want %d", len(src), want))
	}

	workers := w.opts.workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	result, err := pipeline.RunWriter(pipeline.WriterConfig{
		Grid:        w.grid,
		ElementSize: elemSize,
		Codec:       w.codec,
		File:        w.file,
		Workers:     workers,
		QueueSlots:  w.opts.queueSlots,
		Log:         w.opts.log,
	}, src)
	if err != nil {
		w.abort()
		return newError(KindCompressionFailed, op, err)
	}

	indexAt := int64(result.Offsets[len(result.Offsets)-1])
	if _, err := header.WriteIndex(w.bw, indexAt, result.Offsets); err != nil {
		w.abort()
		return newError(KindIO, op, err)
	}
	if err := header.PatchHeader(w.bw, uint64(indexAt)); err != nil {
		w.abort()
		return newError(KindIO, op, err)
	}
	if err := w.file.Flush(); err != nil {
		w.abort()
		return newError(KindIO, op, err)
	}
	if err := w.file.Close(); err != nil {
		return newError(KindIO, op, err)
	}
	return nil
}

// abort closes and removes the partial file, discarding a failed write
// rather than leaving a container whose header promises blocks that were
// never fully committed.
func (w *Writer) abort() {
	w.file.Close()
	os.Remove(w.path)
}
