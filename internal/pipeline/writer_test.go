package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdalton/voxchunk/internal/codec"
	"github.com/kdalton/voxchunk/internal/geometry"
	"github.com/kdalton/voxchunk/internal/rafile"
)

func fillSequential(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i)
	}
	return buf
}

func TestRunWriterNoneCodecProducesMonotonicOffsets(t *testing.T) {
	grid, err := geometry.NewGrid(geometry.Vec{20, 17, 10, 1, 1}, geometry.Vec{8, 4, 2, 1, 1})
	require.NoError(t, err)

	src := fillSequential(int(grid.Full().Count()))
	f := rafile.NewMemFile(0)

	result, err := RunWriter(WriterConfig{
		Grid:        grid,
		ElementSize: 1,
		Codec:       codec.NoneCodec{},
		File:        f,
		Workers:     4,
		QueueSlots:  2,
	}, src)
	require.NoError(t, err)

	require.Len(t, result.Offsets, int(grid.BlockCount())+1)
	for i := 1; i < len(result.Offsets); i++ {
		assert.Greater(t, result.Offsets[i], result.Offsets[i-1])
	}
}

func TestRunWriterSingleWorkerMatchesMultiWorkerOffsets(t *testing.T) {
	grid, err := geometry.NewGrid(geometry.Vec{16, 16, 4, 1, 1}, geometry.Vec{4, 4, 2, 1, 1})
	require.NoError(t, err)
	src := fillSequential(int(grid.Full().Count()))

	f1 := rafile.NewMemFile(0)
	r1, err := RunWriter(WriterConfig{Grid: grid, ElementSize: 1, Codec: codec.NoneCodec{}, File: f1, Workers: 1, QueueSlots: 2}, src)
	require.NoError(t, err)

	f8 := rafile.NewMemFile(0)
	r8, err := RunWriter(WriterConfig{Grid: grid, ElementSize: 1, Codec: codec.NoneCodec{}, File: f8, Workers: 8, QueueSlots: 3}, src)
	require.NoError(t, err)

	assert.Equal(t, f1.Bytes(), f8.Bytes())
	assert.Equal(t, r1.Offsets, r8.Offsets)
}

func TestRunWriterZeroBlocksIsAnError(t *testing.T) {
	_, err := RunWriter(WriterConfig{
		Grid:        geometry.Grid{},
		ElementSize: 1,
		Codec:       codec.NoneCodec{},
		File:        rafile.NewMemFile(0),
		Workers:     1,
		QueueSlots:  1,
	}, nil)
	assert.Error(t, err)
}

type failingCodec struct{ failAt int }

func (f *failingCodec) Tag() uint8 { return codec.TagNone }
func (f *failingCodec) Compress(src []byte) ([]byte, error) {
	f.failAt--
	if f.failAt <= 0 {
		return nil, assert.AnError
	}
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}
func (f *failingCodec) Decompress(src []byte, rawLen int) ([]byte, error) {
	out := make([]byte, rawLen)
	copy(out, src)
	return out, nil
}

func TestRunWriterPropagatesCompressionError(t *testing.T) {
	grid, err := geometry.NewGrid(geometry.Vec{16, 16, 4, 1, 1}, geometry.Vec{4, 4, 2, 1, 1})
	require.NoError(t, err)
	src := fillSequential(int(grid.Full().Count()))

	_, err = RunWriter(WriterConfig{
		Grid:        grid,
		ElementSize: 1,
		Codec:       &failingCodec{failAt: 3},
		File:        rafile.NewMemFile(0),
		Workers:     4,
		QueueSlots:  2,
	}, src)
	require.Error(t, err)
}
