// Package binary provides low-level little-endian binary I/O for the
// container's fixed-layout header and offset index.
package binary

import (
	"encoding/binary"
	"io"
	"math"
)

// Order is the byte order used throughout the container format.
var Order = binary.LittleEndian

// Reader reads fixed-width fields from an io.ReaderAt at an independently
// tracked position, the way internal/binary.Reader does in the teacher
// library, trimmed to the widths this format actually uses (no variable
// offset/length sizing — extents are always u32, offsets always u64).
type Reader struct {
	r   io.ReaderAt
	pos int64
}

// NewReader creates a binary reader starting at position 0.
func NewReader(r io.ReaderAt) *Reader {
	return &Reader{r: r}
}

// At returns a new reader over the same source positioned at offset.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 { return r.pos }

// ReadBytes reads exactly n bytes from the current position and advances it.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := r.r.ReadAt(buf, r.pos); err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return Order.Uint32(buf), nil
}

// ReadUint64 reads a little-endian unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return Order.Uint64(buf), nil
}

// ReadFloat32 reads a little-endian IEEE-754 32-bit float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Skip advances the position by n bytes without reading.
func (r *Reader) Skip(n int64) {
	r.pos += n
}
