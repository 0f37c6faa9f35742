// Package header encodes and decodes the container's fixed-layout file
// header and the variable-length block-offset index that follows the
// compressed block stream.
//
// # File Signature
//
// Every file begins with an 8-byte magic signature. [ReadHeader] rejects
// any file that does not start with [Magic].
//
// # Header Contents
//
// The header is fixed-size per format version so it can be rewritten in
// place once the index offset is known:
//
//   - Magic: 8-byte signature
//   - Version: format version byte
//   - PixelType: pixel type tag (1 byte)
//   - Compression: compression type tag (1 byte)
//   - reserved padding bytes for alignment
//   - Extent: 5 image axis extents (u32 each)
//   - Block: 5 block axis extents (u32 each)
//   - PixelSize: 5 physical pixel sizes (f32 each)
//   - IndexOffset: absolute byte offset of the block-offset index (u64)
//   - Metadata: length-prefixed opaque byte blob
//
// All multi-byte fields are little-endian.
//
// # Usage
//
//	if err := header.WriteHeader(w, desc, 0); err != nil { ... }
//	// ... write compressed blocks, then at the offset following the last one:
//	indexOffset, err := header.WriteIndex(w, at, offsets)
//	err = header.PatchHeader(w, uint64(indexOffset))
//
//	desc, indexOffset, err := header.ReadHeader(r)
//	offsets, err := header.ReadIndex(r, int64(indexOffset), nBlocks, fileSize)
package header
