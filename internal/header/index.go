package header

import (
	"fmt"

	"github.com/kdalton/voxchunk/internal/binary"
)

// WriteIndex appends the block-offset table at the given starting offset and
// returns that same offset, matching the teacher's write_header/write_index
// pairing where the index position is learned only once all blocks have
// been appended. offsets must hold N_blk+1 entries: the start of every
// block plus a trailing sentinel equal to the index's own offset.
func WriteIndex(w *binary.Writer, at int64, offsets []uint64) (int64, error) {
	iw := w.At(at)
	for _, off := range offsets {
		if err := iw.WriteUint64(off); err != nil {
			return 0, fmt.Errorf("writing offset index: %w", err)
		}
	}
	return at, nil
}

// ReadIndex reads nBlocks+1 offset entries starting at indexOffset,
// validates that they are strictly increasing, and validates that every
// offset lies within the file (spec.md §4.1: "offsets lie within file
// bounds"), given the file's actual byte length fileSize.
func ReadIndex(r *binary.Reader, indexOffset int64, nBlocks int, fileSize int64) ([]uint64, error) {
	ir := r.At(indexOffset)
	offsets := make([]uint64, nBlocks+1)
	for i := range offsets {
		v, err := ir.ReadUint64()
		if err != nil {
			return nil, fmt.Errorf("reading offset %d: %w", i, ErrTruncatedIndex)
		}
		offsets[i] = v
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			return nil, ErrIndexNotMonotonic
		}
	}
	indexEnd := indexOffset + int64(len(offsets))*8
	if fileSize >= 0 && (offsets[len(offsets)-1] > uint64(fileSize) || indexEnd > fileSize) {
		return nil, fmt.Errorf("offset index extends to %d, beyond file size %d: %w", indexEnd, fileSize, ErrCorruptHeader)
	}
	return offsets, nil
}
