package pipeline

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kdalton/voxchunk/internal/codec"
	"github.com/kdalton/voxchunk/internal/geometry"
	"github.com/kdalton/voxchunk/internal/rafile"
	"github.com/kdalton/voxchunk/internal/vlog"
)

// ReaderConfig configures one run of the ROI-decompression reader
// pipeline (spec.md §4.5).
type ReaderConfig struct {
	Grid        geometry.Grid
	ElementSize int
	Codec       codec.BlockCodec
	File        rafile.RandomAccessFile
	Offsets     []uint64 // BlockCount()+1 entries, from the offset index
	Workers     int
	Log         vlog.Logger
}

// RunReader computes the blocks intersecting roi, decompresses each on a
// pool of cfg.Workers goroutines, and scatter-copies the intersected
// pixels into dst, which must be sized exactly roi.Count()*ElementSize
// bytes (spec.md §4.5).
func RunReader(cfg ReaderConfig, roi geometry.Rect, dst []byte) error {
	log := cfg.Log
	if log == nil {
		log = vlog.Nop{}
	}

	want := int(roi.Count()) * cfg.ElementSize
	if len(dst) != want {
		return fmt.Errorf("pipeline: destination buffer is %d bytes, want %d", len(dst), want)
	}

	tasks := cfg.Grid.BlocksIntersecting(roi)
	if len(tasks) == 0 {
		return fmt.Errorf("pipeline: region of interest does not intersect the image")
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	var errCell ErrCell
	var nextTask uint64
	roiSize := roi.Size()

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for {
				if errCell.Cancelled() {
					return
				}
				i := atomic.AddUint64(&nextTask, 1) - 1
				if i >= uint64(len(tasks)) {
					return
				}
				task := tasks[i]
				if err := readOneBlock(cfg, task, roiSize, dst); err != nil {
					if errCell.Set(fmt.Errorf("reading block %d: %w", task.BlockID, err)) {
						log.Errorf("reader worker %d: block %d: %v", w, task.BlockID, err)
					}
					return
				}
				log.Debugf("reader worker %d: scattered block %d into ROI", w, task.BlockID)
			}
		}()
	}
	wg.Wait()

	if err := errCell.Err(); err != nil {
		log.Warningf("reader pipeline cancelled: %v", err)
		return err
	}
	return nil
}

func readOneBlock(cfg ReaderConfig, task geometry.Task, roiSize geometry.Vec, dst []byte) error {
	start := cfg.Offsets[task.BlockID]
	end := cfg.Offsets[task.BlockID+1]
	if end < start {
		return fmt.Errorf("offset index not monotonic at block %d", task.BlockID)
	}

	compressed := make([]byte, end-start)
	if _, err := cfg.File.ReadAt(compressed, int64(start)); err != nil {
		return fmt.Errorf("reading compressed bytes: %w", err)
	}

	blockRect := cfg.Grid.BlockPixelRect(task.BlockID)
	rawLen := int(blockRect.Count()) * cfg.ElementSize

	tile, err := cfg.Codec.Decompress(compressed, rawLen)
	if err != nil {
		return fmt.Errorf("decompressing: %w", err)
	}

	copyRect(dst, roiSize, task.Dst, tile, blockRect.Size(), task.Src, cfg.ElementSize)
	return nil
}
