// Package rafile provides the default RandomAccessFile implementations:
// spec.md §1 names RandomAccessFile as an abstract collaborator with
// "read at offset, write sequential, append, flush"; this package supplies
// a concrete *os.File-backed version plus an in-memory one used by the
// pipeline's own tests so they don't depend on a filesystem.
package rafile

import (
	"fmt"
	"os"
	"sync"

	"github.com/kdalton/voxchunk/internal/alloc"
)

// RandomAccessFile is the abstract byte-stream collaborator the writer and
// reader pipelines are built against (spec.md §1). Writes at a fixed
// offset (WriteAt) are used for the header, its later patch, and the offset
// index, which is written right after the last block; Append is used for
// the block stream, whose positions are only known once prior bytes have
// been written; ReadAt serves both the header
// parse and block-offset-indexed random reads.
type RandomAccessFile interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	// Append writes p at the current end of file and returns the offset
	// it was written at.
	Append(p []byte) (offset int64, err error)
	Flush() error
}

// OSFile adapts *os.File into a RandomAccessFile. Append tracks the next
// write position with an [alloc.Allocator] rather than relying on the
// file's own seek cursor, since the writer pipeline's I/O thread is the
// only writer and must know each block's offset before the write lands.
type OSFile struct {
	f     *os.File
	alloc *alloc.Allocator
}

// CreateOSFile creates (or truncates) path for writing and returns an
// OSFile whose append cursor starts at appendBase — the byte offset right
// after the header the caller writes directly via WriteAt, since the block
// stream begins immediately after it.
func CreateOSFile(path string, appendBase int64) (*OSFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("rafile: creating %s: %w", path, err)
	}
	return &OSFile{f: f, alloc: alloc.New(uint64(appendBase))}, nil
}

// OpenOSFile opens an existing file read-only.
func OpenOSFile(path string) (*OSFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rafile: opening %s: %w", path, err)
	}
	return &OSFile{f: f}, nil
}

// ReadAt implements RandomAccessFile.
func (o *OSFile) ReadAt(p []byte, off int64) (int, error) { return o.f.ReadAt(p, off) }

// WriteAt implements RandomAccessFile.
func (o *OSFile) WriteAt(p []byte, off int64) (int, error) { return o.f.WriteAt(p, off) }

// Append implements RandomAccessFile.
func (o *OSFile) Append(p []byte) (int64, error) {
	off := int64(o.alloc.Alloc(uint64(len(p))))
	if _, err := o.f.WriteAt(p, off); err != nil {
		return 0, err
	}
	return off, nil
}

// Flush implements RandomAccessFile.
func (o *OSFile) Flush() error { return o.f.Sync() }

// Close closes the underlying file.
func (o *OSFile) Close() error { return o.f.Close() }

// Name returns the file's path.
func (o *OSFile) Name() string { return o.f.Name() }

// Size returns the file's current byte length, used by Open to bounds-
// check the offset index against the actual file before trusting it.
func (o *OSFile) Size() (int64, error) {
	fi, err := o.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("rafile: stat %s: %w", o.f.Name(), err)
	}
	return fi.Size(), nil
}

// MemFile is an in-memory RandomAccessFile over a growable byte buffer,
// used by the pipeline's own unit tests.
type MemFile struct {
	mu    sync.Mutex
	buf   []byte
	alloc *alloc.Allocator
}

// NewMemFile returns an empty in-memory RandomAccessFile whose append
// cursor starts at appendBase.
func NewMemFile(appendBase int64) *MemFile {
	return &MemFile{alloc: alloc.New(uint64(appendBase))}
}

// ReadAt implements RandomAccessFile.
func (m *MemFile) ReadAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 || off >= int64(len(m.buf)) {
		return 0, fmt.Errorf("rafile: read at %d beyond length %d", off, len(m.buf))
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, fmt.Errorf("rafile: short read at %d: got %d of %d bytes", off, n, len(p))
	}
	return n, nil
}

// WriteAt implements RandomAccessFile.
func (m *MemFile) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[off:], p)
	return len(p), nil
}

// Append implements RandomAccessFile.
func (m *MemFile) Append(p []byte) (int64, error) {
	off := int64(m.alloc.Alloc(uint64(len(p))))
	if _, err := m.WriteAt(p, off); err != nil {
		return 0, err
	}
	return off, nil
}

// Flush implements RandomAccessFile. MemFile has no backing store to sync.
func (m *MemFile) Flush() error { return nil }

// Bytes returns a copy of the current buffer contents, used by tests to
// inspect the written file shape.
func (m *MemFile) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.buf))
	copy(out, m.buf)
	return out
}

// Len returns the current buffer length.
func (m *MemFile) Len() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.buf))
}
