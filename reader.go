package voxchunk

import (
	"fmt"
	"runtime"

	"github.com/kdalton/voxchunk/internal/binary"
	"github.com/kdalton/voxchunk/internal/codec"
	"github.com/kdalton/voxchunk/internal/geometry"
	"github.com/kdalton/voxchunk/internal/header"
	"github.com/kdalton/voxchunk/internal/pipeline"
	"github.com/kdalton/voxchunk/internal/rafile"
)

// Reader opens an existing container for region-of-interest reads. Open
// parses the header and offset index once; each Read call decompresses
// only the blocks a given ROI touches.
type Reader struct {
	file    *rafile.OSFile
	desc    Descriptor
	grid    geometry.Grid
	codec   codec.BlockCodec
	offsets []uint64
	opts    *readerOptions
}

// Open opens the container at path, validates its header and offset
// index, and returns a Reader ready for Read calls.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	const op = "Open"

	o := defaultReaderOptions()
	for _, opt := range opts {
		opt(o)
	}

	f, err := rafile.OpenOSFile(path)
	if err != nil {
		return nil, newError(KindIO, op, err)
	}

	br := binary.NewReader(f)
	hd, indexOffset, err := header.ReadHeader(br)
	if err != nil {
		f.Close()
		return nil, wrapHeaderErr(op, err)
	}

	desc := fromHeaderDescriptor(hd)
	grid, err := geometry.NewGrid(desc.Extent, desc.Block)
	if err != nil {
		f.Close()
		return nil, newError(KindCorruptHeader, op, err)
	}

	c, err := codec.ByID(hd.Compression)
	if err != nil {
		f.Close()
		return nil, newError(KindCorruptHeader, op, err)
	}

	size, err := f.Size()
	if err != nil {
		f.Close()
		return nil, newError(KindIO, op, err)
	}
	offsets, err := header.ReadIndex(br, int64(indexOffset), int(grid.BlockCount()), size)
	if err != nil {
		f.Close()
		return nil, wrapHeaderErr(op, err)
	}

	return &Reader{
		file:    f,
		desc:    desc,
		grid:    grid,
		codec:   c,
		offsets: offsets,
		opts:    o,
	}, nil
}

// Descriptor returns the container's image descriptor.
func (r *Reader) Descriptor() Descriptor { return r.desc }

// Offsets returns the container's block-offset table: BlockCount()+1
// entries, the start of every block plus a trailing sentinel equal to the
// offset index's own position. Exposed for diagnostic tooling such as
// cmd/voxchunk inspect.
func (r *Reader) Offsets() []uint64 {
	out := make([]uint64, len(r.offsets))
	copy(out, r.offsets)
	return out
}

// Read decompresses the blocks intersecting roi and scatters their pixels
// into dst, which must be exactly roi.Count()*PixelType.ByteSize() bytes,
// laid out in (x,y,z,c,t) order with x fastest.
func (r *Reader) Read(roi ROI, dst []byte) error {
	const op = "Read"

	rect, err := roi.toRect(r.desc)
	if err != nil {
		return err
	}

	elemSize := r.desc.PixelType.ByteSize()
	want := int(rect.Count()) * elemSize
	if len(dst) != want {
		return newError(KindBufferTooSmall, op,
			fmt.Errorf("destination buffer is %d bytes, want %d", len(dst), want))
	}

	workers := r.opts.workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	err = pipeline.RunReader(pipeline.ReaderConfig{
		Grid:        r.grid,
		ElementSize: elemSize,
		Codec:       r.codec,
		File:        r.file,
		Offsets:     r.offsets,
		Workers:     workers,
		Log:         r.opts.log,
	}, rect, dst)
	if err != nil {
		return newError(KindDecompressionFailed, op, err)
	}
	return nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if err := r.file.Close(); err != nil {
		return newError(KindIO, "Close", err)
	}
	return nil
}
