package pipeline

import "github.com/kdalton/voxchunk/internal/geometry"

// elementIndex linearizes coord within a buffer whose full extent is
// extent, x varying fastest, matching the block-id linearization in
// internal/geometry and the pixel-buffer layout the public API requires of
// callers.
func elementIndex(extent, coord geometry.Vec) uint64 {
	idx := uint64(coord[0])
	stride := uint64(extent[0])
	for i := 1; i < geometry.NumAxes; i++ {
		idx += uint64(coord[i]) * stride
		stride *= uint64(extent[i])
	}
	return idx
}

// copyRect copies the sub-rectangle srcRect of a buffer shaped srcExtent
// into the sub-rectangle dstRect of a buffer shaped dstExtent. srcRect and
// dstRect must have equal Size(); axis x is copied as one contiguous run
// per row, other axes are iterated individually (spec.md §4.2: "copy is
// strided along axis x contiguous, other axes iterated").
func copyRect(dst []byte, dstExtent geometry.Vec, dstRect geometry.Rect, src []byte, srcExtent geometry.Vec, srcRect geometry.Rect, elementSize int) {
	size := srcRect.Size()
	runBytes := int(size[0]) * elementSize

	var idx geometry.Vec
	var walk func(axis int)
	walk = func(axis int) {
		if axis == 0 {
			var srcCoord, dstCoord geometry.Vec
			for i := 0; i < geometry.NumAxes; i++ {
				srcCoord[i] = srcRect.Lo[i] + idx[i]
				dstCoord[i] = dstRect.Lo[i] + idx[i]
			}
			srcOff := int(elementIndex(srcExtent, srcCoord)) * elementSize
			dstOff := int(elementIndex(dstExtent, dstCoord)) * elementSize
			copy(dst[dstOff:dstOff+runBytes], src[srcOff:srcOff+runBytes])
			return
		}
		for c := uint32(0); c < size[axis]; c++ {
			idx[axis] = c
			walk(axis - 1)
		}
	}
	walk(geometry.NumAxes - 1)
}
