// Package geometry computes the block grid for an image descriptor: how
// many blocks cover the image, which pixel rectangle each block id owns,
// and which blocks a region of interest touches.
//
// The five axes are always addressed in the fixed order (x, y, z, c, t),
// with x varying fastest in the block-id linearization, mirroring the
// teacher's innermost-dimension-contiguous convention for copying chunk
// data (go-hdf5's internal/layout.copyChunkRecursive).
package geometry

import "fmt"

// NumAxes is the fixed dimensionality of every image and block extent.
const NumAxes = 5

// Vec is a 5-element per-axis coordinate, extent, or index in (x,y,z,c,t)
// order.
type Vec = [NumAxes]uint32

// Rect is an axis-aligned, closed-low/open-high rectangle in image
// coordinates: Lo is inclusive, Hi is exclusive, per axis.
type Rect struct {
	Lo Vec
	Hi Vec
}

// Size returns the per-axis extent of the rectangle.
func (r Rect) Size() Vec {
	var s Vec
	for i := range s {
		s[i] = r.Hi[i] - r.Lo[i]
	}
	return s
}

// Count returns the total number of elements the rectangle covers.
func (r Rect) Count() uint64 {
	n := uint64(1)
	for i := range r.Lo {
		n *= uint64(r.Hi[i] - r.Lo[i])
	}
	return n
}

// Grid describes the block layout for a fixed image extent and block
// extent: how many blocks per axis, the total block count, and the
// operations to map block ids to pixel rectangles and to intersect a
// region of interest with the grid.
type Grid struct {
	Image Vec
	Block Vec

	// blocksPerAxis[i] = ceil(Image[i]/Block[i]).
	blocksPerAxis Vec
}

// NewGrid validates extents and builds the block grid. Both extents must be
// componentwise nonzero, and block must not exceed image on any axis.
func NewGrid(image, block Vec) (Grid, error) {
	var perAxis Vec
	for i := 0; i < NumAxes; i++ {
		if image[i] == 0 {
			return Grid{}, fmt.Errorf("geometry: image extent axis %d is zero", i)
		}
		if block[i] < 1 || block[i] > image[i] {
			return Grid{}, fmt.Errorf("geometry: block extent axis %d out of range (1..%d)", i, image[i])
		}
		perAxis[i] = (image[i] + block[i] - 1) / block[i]
	}
	return Grid{Image: image, Block: block, blocksPerAxis: perAxis}, nil
}

// BlocksPerAxis returns the number of blocks along each axis.
func (g Grid) BlocksPerAxis() Vec { return g.blocksPerAxis }

// BlockCount returns the total number of blocks in the grid, N_blk.
func (g Grid) BlockCount() uint64 {
	n := uint64(1)
	for _, c := range g.blocksPerAxis {
		n *= uint64(c)
	}
	return n
}

// BlockCoord maps a linear block id to its grid coordinate, x fastest.
func (g Grid) BlockCoord(id uint64) Vec {
	var coord Vec
	for i := 0; i < NumAxes; i++ {
		per := uint64(g.blocksPerAxis[i])
		coord[i] = uint32(id % per)
		id /= per
	}
	return coord
}

// BlockID is the inverse of BlockCoord: it linearizes a grid coordinate
// back into a block id.
func (g Grid) BlockID(coord Vec) uint64 {
	var id uint64
	stride := uint64(1)
	for i := 0; i < NumAxes; i++ {
		id += uint64(coord[i]) * stride
		stride *= uint64(g.blocksPerAxis[i])
	}
	return id
}

// BlockPixelRect returns the image-coordinate rectangle that block id b
// covers. Trailing blocks on any axis are clipped to the image extent, so
// their size may be smaller than Block on that axis (a "short" block).
func (g Grid) BlockPixelRect(b uint64) Rect {
	coord := g.BlockCoord(b)
	var r Rect
	for i := 0; i < NumAxes; i++ {
		lo := coord[i] * g.Block[i]
		hi := lo + g.Block[i]
		if hi > g.Image[i] {
			hi = g.Image[i]
		}
		r.Lo[i] = lo
		r.Hi[i] = hi
	}
	return r
}

// Task describes one block's contribution to a region-of-interest read:
// the block id, the rectangle to read from that block in block-local
// coordinates (Src), and the rectangle to write it to in ROI-local
// coordinates (Dst). Src and Dst always have equal Size().
type Task struct {
	BlockID uint64
	Src     Rect
	Dst     Rect
}

// BlocksIntersecting enumerates, in ascending block-id order, every block
// that intersects roi (a rectangle in image coordinates). For each it
// computes the overlap expressed in block-local coordinates (for reading
// out of the decompressed tile) and in ROI-local coordinates (for writing
// into the caller's destination buffer).
func (g Grid) BlocksIntersecting(roi Rect) []Task {
	var axisRange [NumAxes][2]uint32 // inclusive [lo,hi] block-coordinate range touched per axis
	for i := 0; i < NumAxes; i++ {
		if roi.Hi[i] <= roi.Lo[i] {
			return nil
		}
		loBlock := roi.Lo[i] / g.Block[i]
		hiBlock := (roi.Hi[i] - 1) / g.Block[i]
		axisRange[i] = [2]uint32{loBlock, hiBlock}
	}

	var tasks []Task
	var coord Vec
	var walk func(axis int)
	walk = func(axis int) {
		if axis < 0 {
			b := g.BlockID(coord)
			blockRect := g.BlockPixelRect(b)
			overlap := intersect(blockRect, roi)
			if overlap.Count() == 0 {
				return
			}
			var src, dst Rect
			for i := 0; i < NumAxes; i++ {
				src.Lo[i] = overlap.Lo[i] - blockRect.Lo[i]
				src.Hi[i] = overlap.Hi[i] - blockRect.Lo[i]
				dst.Lo[i] = overlap.Lo[i] - roi.Lo[i]
				dst.Hi[i] = overlap.Hi[i] - roi.Lo[i]
			}
			tasks = append(tasks, Task{BlockID: b, Src: src, Dst: dst})
			return
		}
		for c := axisRange[axis][0]; c <= axisRange[axis][1]; c++ {
			coord[axis] = c
			walk(axis - 1)
		}
	}
	walk(NumAxes - 1)
	return tasks
}

func intersect(a, b Rect) Rect {
	var r Rect
	for i := range a.Lo {
		lo := a.Lo[i]
		if b.Lo[i] > lo {
			lo = b.Lo[i]
		}
		hi := a.Hi[i]
		if b.Hi[i] < hi {
			hi = b.Hi[i]
		}
		if hi < lo {
			hi = lo
		}
		r.Lo[i] = lo
		r.Hi[i] = hi
	}
	return r
}

// Full returns the rectangle covering the whole image.
func (g Grid) Full() Rect {
	return Rect{Lo: Vec{}, Hi: g.Image}
}
