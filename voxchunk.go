// Package voxchunk reads and writes chunked, block-compressed
// multi-dimensional image containers: an (x,y,z,c,t) image is split into a
// fixed-size grid of blocks, each compressed independently, so that a
// region of interest can be read back without decompressing the whole
// image.
//
// The on-disk format and its header/index encoding live in
// internal/header; block geometry lives in internal/geometry; the
// concurrent compress/append and decompress/scatter pipelines live in
// internal/pipeline. This package wires those together behind the public
// Writer/Reader API, the way go-hdf5's root package wires internal/object,
// internal/superblock, and internal/binary behind File.
package voxchunk

import (
	"errors"
	"fmt"

	"github.com/kdalton/voxchunk/internal/header"
)

// PixelType identifies the element type a container's blocks hold.
type PixelType uint8

// Supported pixel types. The set is closed: ByID-style validation rejects
// any other value read from a header.
const (
	PixelUint8 PixelType = iota
	PixelUint16
	PixelInt16
	PixelUint32
	PixelInt32
	PixelFloat32
	PixelFloat64
	PixelInt8
	PixelUint64
	PixelInt64
)

// ByteSize returns the size in bytes of one element of this pixel type.
func (p PixelType) ByteSize() int {
	switch p {
	case PixelUint8, PixelInt8:
		return 1
	case PixelUint16, PixelInt16:
		return 2
	case PixelUint32, PixelInt32, PixelFloat32:
		return 4
	case PixelFloat64, PixelUint64, PixelInt64:
		return 8
	default:
		return 0
	}
}

func (p PixelType) String() string {
	switch p {
	case PixelUint8:
		return "uint8"
	case PixelUint16:
		return "uint16"
	case PixelInt16:
		return "int16"
	case PixelUint32:
		return "uint32"
	case PixelInt32:
		return "int32"
	case PixelFloat32:
		return "float32"
	case PixelFloat64:
		return "float64"
	case PixelInt8:
		return "int8"
	case PixelUint64:
		return "uint64"
	case PixelInt64:
		return "int64"
	default:
		return fmt.Sprintf("PixelType(%d)", uint8(p))
	}
}

// CompressionType identifies the block codec a container uses.
type CompressionType uint8

// Supported compression types.
const (
	CompressionNone CompressionType = iota
	CompressionZstd
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("CompressionType(%d)", uint8(c))
	}
}

// Axis names the five fixed container dimensions, always addressed in this
// order.
type Axis int

// The five fixed axes, x fastest.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisC
	AxisT
)

// Descriptor describes the shape of an image container: its extent along
// each of the five axes, the block size used to tile it, the pixel type
// and compression codec, per-axis physical pixel size (for metadata
// display only, never used in geometry), and opaque user metadata bytes
// stored verbatim in the header.
type Descriptor struct {
	Extent      [5]uint32
	Block       [5]uint32
	PixelType   PixelType
	Compression CompressionType
	PixelSize   [5]float32
	Metadata    []byte
}

// Kind identifies one of the closed set of errors voxchunk's public API
// can return, usable with errors.Is against the sentinel values below.
type Kind int

// The closed set of error kinds the public API can return.
const (
	KindIO Kind = iota
	KindBadMagic
	KindUnsupportedVersion
	KindCorruptHeader
	KindTruncatedIndex
	KindIndexNotMonotonic
	KindCompressionFailed
	KindDecompressionFailed
	KindBufferTooSmall
	KindInvalidROI
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindBadMagic:
		return "bad_magic"
	case KindUnsupportedVersion:
		return "unsupported_version"
	case KindCorruptHeader:
		return "corrupt_header"
	case KindTruncatedIndex:
		return "truncated_index"
	case KindIndexNotMonotonic:
		return "index_not_monotonic"
	case KindCompressionFailed:
		return "compression_failed"
	case KindDecompressionFailed:
		return "decompression_failed"
	case KindBufferTooSmall:
		return "buffer_too_small"
	case KindInvalidROI:
		return "invalid_roi"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the error type every voxchunk public API call returns its
// failures as, wrapping an underlying cause while exposing a stable Kind
// for errors.Is/errors.As-style dispatch.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("voxchunk: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("voxchunk: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, voxchunk.ErrCorruptHeader) against the sentinels
// below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Sentinel errors for the closed public error-code set. Compare with
// errors.Is, e.g. errors.Is(err, voxchunk.ErrCorruptHeader).
var (
	ErrIO                  = &Error{Kind: KindIO}
	ErrBadMagic            = &Error{Kind: KindBadMagic}
	ErrUnsupportedVersion  = &Error{Kind: KindUnsupportedVersion}
	ErrCorruptHeader       = &Error{Kind: KindCorruptHeader}
	ErrTruncatedIndex      = &Error{Kind: KindTruncatedIndex}
	ErrIndexNotMonotonic   = &Error{Kind: KindIndexNotMonotonic}
	ErrCompressionFailed   = &Error{Kind: KindCompressionFailed}
	ErrDecompressionFailed = &Error{Kind: KindDecompressionFailed}
	ErrBufferTooSmall      = &Error{Kind: KindBufferTooSmall}
	ErrInvalidROI          = &Error{Kind: KindInvalidROI}
	ErrCancelled           = &Error{Kind: KindCancelled}
)

// wrapHeaderErr maps internal/header's sentinel errors onto the public
// Kind set, defaulting to KindIO for anything unrecognized (e.g. the
// underlying os error from a read that never reached header parsing).
func wrapHeaderErr(op string, err error) *Error {
	switch {
	case errors.Is(err, header.ErrBadMagic):
		return newError(KindBadMagic, op, err)
	case errors.Is(err, header.ErrUnsupportedVersion):
		return newError(KindUnsupportedVersion, op, err)
	case errors.Is(err, header.ErrCorruptHeader):
		return newError(KindCorruptHeader, op, err)
	case errors.Is(err, header.ErrTruncatedIndex):
		return newError(KindTruncatedIndex, op, err)
	case errors.Is(err, header.ErrIndexNotMonotonic):
		return newError(KindIndexNotMonotonic, op, err)
	default:
		return newError(KindIO, op, err)
	}
}

func toHeaderDescriptor(d Descriptor) header.Descriptor {
	return header.Descriptor{
		Extent:      d.Extent,
		Block:       d.Block,
		PixelType:   uint8(d.PixelType),
		Compression: uint8(d.Compression),
		PixelSize:   d.PixelSize,
		Metadata:    d.Metadata,
	}
}

func fromHeaderDescriptor(hd header.Descriptor) Descriptor {
	return Descriptor{
		Extent:      hd.Extent,
		Block:       hd.Block,
		PixelType:   PixelType(hd.PixelType),
		Compression: CompressionType(hd.Compression),
		PixelSize:   hd.PixelSize,
		Metadata:    hd.Metadata,
	}
}
