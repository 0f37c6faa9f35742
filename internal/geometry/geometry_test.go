package geometry

import "testing"

func TestNewGridBlockCount(t *testing.T) {
	g, err := NewGrid(Vec{1002, 200, 54, 1, 1}, Vec{256, 256, 32, 1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	// ceil(1002/256)=4, ceil(200/256)=1, ceil(54/32)=2, 1, 1
	want := uint64(4 * 1 * 2 * 1 * 1)
	if got := g.BlockCount(); got != want {
		t.Fatalf("BlockCount = %d, want %d", got, want)
	}
}

func TestBlockCoordRoundTrip(t *testing.T) {
	g, err := NewGrid(Vec{20, 17, 10, 1, 1}, Vec{8, 4, 2, 1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	for b := uint64(0); b < g.BlockCount(); b++ {
		coord := g.BlockCoord(b)
		if got := g.BlockID(coord); got != b {
			t.Fatalf("BlockID(BlockCoord(%d)) = %d, want %d", b, got, b)
		}
	}
}

func TestBlockPixelRectUnionIsDisjointAndExact(t *testing.T) {
	g, err := NewGrid(Vec{20, 17, 10, 1, 1}, Vec{8, 4, 2, 1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	var total uint64
	// Build a coverage grid: every voxel of the image must be marked by
	// exactly one block rect, and the rect volumes must sum to the image
	// volume.
	covered := map[Vec]int{}
	for b := uint64(0); b < g.BlockCount(); b++ {
		r := g.BlockPixelRect(b)
		for i := 0; i < NumAxes; i++ {
			if r.Hi[i] > g.Image[i] {
				t.Fatalf("block %d rect exceeds image on axis %d: %+v", b, i, r)
			}
			if r.Lo[i] >= r.Hi[i] {
				t.Fatalf("block %d rect empty on axis %d: %+v", b, i, r)
			}
		}
		var p Vec
		for p[4] = r.Lo[4]; p[4] < r.Hi[4]; p[4]++ {
			for p[3] = r.Lo[3]; p[3] < r.Hi[3]; p[3]++ {
				for p[2] = r.Lo[2]; p[2] < r.Hi[2]; p[2]++ {
					for p[1] = r.Lo[1]; p[1] < r.Hi[1]; p[1]++ {
						for p[0] = r.Lo[0]; p[0] < r.Hi[0]; p[0]++ {
							covered[p]++
						}
					}
				}
			}
		}
		total += r.Count()
	}
	var want uint64 = 1
	for _, e := range g.Image {
		want *= uint64(e)
	}
	if total != want {
		t.Fatalf("sum of block rect volumes = %d, want %d (image volume)", total, want)
	}
	if uint64(len(covered)) != want {
		t.Fatalf("block rects cover %d distinct voxels, want %d", len(covered), want)
	}
	for p, n := range covered {
		if n != 1 {
			t.Fatalf("voxel %v covered by %d block rects, want 1", p, n)
		}
	}
}

func TestShortTrailingBlocks(t *testing.T) {
	g, err := NewGrid(Vec{20, 17, 10, 1, 1}, Vec{8, 4, 2, 1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	// Last block on x covers [16,20) width 4, short of the nominal 8.
	last := g.BlockCount() - 1
	r := g.BlockPixelRect(last)
	if got := r.Hi[0] - r.Lo[0]; got != 4 {
		t.Fatalf("x extent of last block = %d, want 4", got)
	}
}

func TestBlocksIntersectingFullImage(t *testing.T) {
	g, err := NewGrid(Vec{20, 17, 10, 1, 1}, Vec{8, 4, 2, 1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	tasks := g.BlocksIntersecting(g.Full())
	if uint64(len(tasks)) != g.BlockCount() {
		t.Fatalf("full-image ROI visited %d blocks, want %d", len(tasks), g.BlockCount())
	}
	for i, task := range tasks {
		if task.BlockID != uint64(i) {
			t.Fatalf("task %d has block id %d, want ascending order", i, task.BlockID)
		}
		if task.Src.Size() != task.Dst.Size() {
			t.Fatalf("task %d src/dst size mismatch: %+v vs %+v", i, task.Src, task.Dst)
		}
	}
}

func TestBlocksIntersectingSingleVoxel(t *testing.T) {
	g, err := NewGrid(Vec{20, 17, 10, 1, 1}, Vec{8, 4, 2, 1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	roi := Rect{Lo: Vec{5, 5, 5, 0, 0}, Hi: Vec{6, 6, 6, 1, 1}}
	tasks := g.BlocksIntersecting(roi)
	if len(tasks) != 1 {
		t.Fatalf("single-voxel ROI visited %d blocks, want 1", len(tasks))
	}
	if tasks[0].Src.Count() != 1 || tasks[0].Dst.Count() != 1 {
		t.Fatalf("single-voxel ROI task has non-unit rect: %+v", tasks[0])
	}
}

func TestBlocksIntersectingPlane(t *testing.T) {
	g, err := NewGrid(Vec{1002, 200, 54, 1, 1}, Vec{256, 256, 32, 1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	// A single XY plane at z=40 spans the second z-block only.
	roi := Rect{Lo: Vec{0, 0, 40, 0, 0}, Hi: Vec{1002, 200, 41, 1, 1}}
	tasks := g.BlocksIntersecting(roi)
	for _, task := range tasks {
		coord := g.BlockCoord(task.BlockID)
		if coord[2] != 1 {
			t.Fatalf("plane ROI touched z-block %d, want only block 1", coord[2])
		}
	}
	// Every x-block (4 of them) must appear since the plane spans full x/y.
	seen := map[uint32]bool{}
	for _, task := range tasks {
		seen[g.BlockCoord(task.BlockID)[0]] = true
	}
	if len(seen) != 4 {
		t.Fatalf("plane ROI touched %d distinct x-blocks, want 4", len(seen))
	}
}

func TestBlocksIntersectingAlignedNoShortCopies(t *testing.T) {
	g, err := NewGrid(Vec{16, 16, 1, 1, 1}, Vec{8, 8, 1, 1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	roi := Rect{Lo: Vec{0, 0, 0, 0, 0}, Hi: Vec{8, 16, 1, 1, 1}}
	tasks := g.BlocksIntersecting(roi)
	if len(tasks) != 2 {
		t.Fatalf("aligned ROI visited %d blocks, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.Src.Size() != (Vec{8, 8, 1, 1, 1}) {
			t.Fatalf("aligned ROI produced a short copy: %+v", task.Src)
		}
	}
}

func TestSingleBlockImage(t *testing.T) {
	g, err := NewGrid(Vec{10, 10, 10, 1, 1}, Vec{10, 10, 10, 1, 1})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.BlockCount() != 1 {
		t.Fatalf("BlockCount = %d, want 1", g.BlockCount())
	}
}

func TestNewGridRejectsInvalidBlockExtent(t *testing.T) {
	if _, err := NewGrid(Vec{10, 10, 10, 1, 1}, Vec{0, 10, 10, 1, 1}); err == nil {
		t.Fatal("expected error for zero block extent")
	}
	if _, err := NewGrid(Vec{10, 10, 10, 1, 1}, Vec{11, 10, 10, 1, 1}); err == nil {
		t.Fatal("expected error for block extent exceeding image extent")
	}
}
