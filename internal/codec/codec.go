// Package codec provides the concrete BlockCodec implementations that back
// the container's compression-type tag: a default zstd codec and a
// passthrough "none" codec. The core pipeline (internal/pipeline) only ever
// calls through the BlockCodec interface, so swapping in a different codec
// means adding a case to ByID, not touching the pipeline.
package codec

import "fmt"

// Tag values for the header's compression-type byte. The set is closed:
// an unrecognized tag on read is a format error (spec.md §4.1), not a
// negotiation.
const (
	TagNone uint8 = 0
	TagZstd uint8 = 1
)

// BlockCodec compresses and decompresses one block's worth of raw pixels
// at a time. Implementations must be safe for concurrent use by multiple
// goroutines, each operating on independent byte slices.
type BlockCodec interface {
	// Compress returns the compressed form of src.
	Compress(src []byte) ([]byte, error)
	// Decompress returns exactly rawLen bytes of decompressed data read
	// from src.
	Decompress(src []byte, rawLen int) ([]byte, error)
	// Tag returns the compression-type byte this codec corresponds to.
	Tag() uint8
}

// ByID resolves a header compression-type tag to the codec that can read
// and write it.
func ByID(tag uint8) (BlockCodec, error) {
	switch tag {
	case TagNone:
		return NoneCodec{}, nil
	case TagZstd:
		return NewZstdCodec(), nil
	default:
		return nil, fmt.Errorf("codec: unrecognized compression tag %d", tag)
	}
}

// MaxCompressedSize returns a conservative upper bound on the compressed
// size of a block whose raw size is rawBlockBytes, used to size each
// queue slot (spec.md §4.3, §9). The bound must hold for every codec ByID
// can return, including NoneCodec, whose "compressed" size equals its raw
// size exactly.
func MaxCompressedSize(rawBlockBytes int) int {
	// 2% headroom plus a fixed allowance for the zstd frame/block header
	// overhead, matching the spec's suggested
	// raw_block_bytes*1.02 + k_codec_overhead.
	const codecOverhead = 1024
	return rawBlockBytes + rawBlockBytes/50 + codecOverhead
}

// NoneCodec is the identity BlockCodec used when compression is disabled
// (spec.md §8 scenario 5). Compress and Decompress both copy their input
// verbatim so that callers may reuse the returned slice without aliasing
// the source.
type NoneCodec struct{}

// Tag implements BlockCodec.
func (NoneCodec) Tag() uint8 { return TagNone }

// Compress implements BlockCodec.
func (NoneCodec) Compress(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}

// Decompress implements BlockCodec.
func (NoneCodec) Decompress(src []byte, rawLen int) ([]byte, error) {
	if len(src) != rawLen {
		return nil, fmt.Errorf("codec: none-codec payload is %d bytes, want %d", len(src), rawLen)
	}
	out := make([]byte, rawLen)
	copy(out, src)
	return out, nil
}
