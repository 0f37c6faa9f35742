package voxchunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdalton/voxchunk"
)

func smallDescriptor() voxchunk.Descriptor {
	return voxchunk.Descriptor{
		Extent: [5]uint32{20, 17, 10, 3, 2},
		Block:  [5]uint32{8, 4, 2, 1, 1},
	}
}

func TestFullCoversEntireImage(t *testing.T) {
	d := smallDescriptor()
	roi := voxchunk.Full(d)
	assert.Equal(t, [5]uint32{}, roi.Lo)
	assert.Equal(t, [5]uint32{19, 16, 9, 2, 1}, roi.Hi)
	assert.Equal(t, uint64(20*17*10*3*2), roi.Count())
}

func TestSlicePinsSingleAxis(t *testing.T) {
	d := smallDescriptor()
	roi := voxchunk.Slice(voxchunk.AxisZ, 5, d)
	assert.Equal(t, uint32(5), roi.Lo[2])
	assert.Equal(t, uint32(5), roi.Hi[2])
	assert.Equal(t, uint64(20*17*1*3*2), roi.Count())
}

func TestBoxIsInclusiveOnBothEnds(t *testing.T) {
	roi := voxchunk.Box([5]uint32{1, 1, 1, 0, 0}, [5]uint32{3, 1, 1, 0, 0})
	assert.Equal(t, uint64(3), roi.Count())
}
