package voxchunk

import "github.com/kdalton/voxchunk/internal/geometry"

// ROI is a region of interest expressed in inclusive image-coordinate
// bounds per axis: both Lo and Hi are included in the region. This is the
// supplemented public-facing convention (axis ranges are easiest to write
// inclusively, e.g. "plane z=12" is Lo[2]=Hi[2]=12); internally it is
// converted to geometry.Rect's closed-low/open-high convention before the
// reader pipeline ever sees it.
type ROI struct {
	Lo [5]uint32
	Hi [5]uint32
}

// Full returns the ROI covering the entire image described by d.
func Full(d Descriptor) ROI {
	var hi [5]uint32
	for i := range hi {
		hi[i] = d.Extent[i] - 1
	}
	return ROI{Hi: hi}
}

// Slice returns the ROI covering the full image except for a single index
// along axis, which is pinned to index. For example Slice(AxisZ, 12, d)
// selects the z=12 plane across all of x, y, c, and t.
func Slice(axis Axis, index uint32, d Descriptor) ROI {
	r := Full(d)
	r.Lo[axis] = index
	r.Hi[axis] = index
	return r
}

// Box returns the ROI covering the inclusive axis-aligned box [lo, hi].
func Box(lo, hi [5]uint32) ROI {
	return ROI{Lo: lo, Hi: hi}
}

// toRect converts the inclusive ROI into geometry's closed-low/open-high
// Rect and validates it against the image extent.
func (r ROI) toRect(d Descriptor) (geometry.Rect, error) {
	var rect geometry.Rect
	for i := 0; i < 5; i++ {
		if r.Hi[i] < r.Lo[i] {
			return geometry.Rect{}, newError(KindInvalidROI, "roi", nil)
		}
		if r.Hi[i] >= d.Extent[i] {
			return geometry.Rect{}, newError(KindInvalidROI, "roi", nil)
		}
		rect.Lo[i] = r.Lo[i]
		rect.Hi[i] = r.Hi[i] + 1
	}
	return rect, nil
}

// Count returns the number of elements the ROI covers.
func (r ROI) Count() uint64 {
	n := uint64(1)
	for i := 0; i < 5; i++ {
		n *= uint64(r.Hi[i]) - uint64(r.Lo[i]) + 1
	}
	return n
}
