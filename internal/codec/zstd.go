package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// encoderPool and decoderPool hand out per-goroutine *zstd.Encoder and
// *zstd.Decoder instances so concurrent writer/reader workers never
// contend on shared codec state, the way the teacher's chunk writer gives
// each call its own scratch buffer (internal/layout.ChunkWriter) rather
// than sharing one across goroutines.
var (
	encoderPool = sync.Pool{
		New: func() interface{} {
			enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
			if err != nil {
				// zstd.NewWriter(nil, ...) only fails on invalid options,
				// which never happens with a fixed, valid option set.
				panic(fmt.Sprintf("codec: building zstd encoder: %v", err))
			}
			return enc
		},
	}
	decoderPool = sync.Pool{
		New: func() interface{} {
			dec, err := zstd.NewReader(nil)
			if err != nil {
				panic(fmt.Sprintf("codec: building zstd decoder: %v", err))
			}
			return dec
		},
	}
)

// ZstdCodec is the default BlockCodec, backed by
// github.com/klauspost/compress/zstd.
type ZstdCodec struct{}

// NewZstdCodec returns the default zstd-backed BlockCodec.
func NewZstdCodec() ZstdCodec { return ZstdCodec{} }

// Tag implements BlockCodec.
func (ZstdCodec) Tag() uint8 { return TagZstd }

// Compress implements BlockCodec.
func (ZstdCodec) Compress(src []byte) ([]byte, error) {
	enc := encoderPool.Get().(*zstd.Encoder)
	defer encoderPool.Put(enc)
	return enc.EncodeAll(src, make([]byte, 0, MaxCompressedSize(len(src)))), nil
}

// Decompress implements BlockCodec.
func (ZstdCodec) Decompress(src []byte, rawLen int) ([]byte, error) {
	dec := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)
	out, err := dec.DecodeAll(src, make([]byte, 0, rawLen))
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decompress: %w", err)
	}
	if len(out) != rawLen {
		return nil, fmt.Errorf("codec: zstd decompressed %d bytes, want %d", len(out), rawLen)
	}
	return out, nil
}
