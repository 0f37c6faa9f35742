package pipeline

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kdalton/voxchunk/internal/codec"
	"github.com/kdalton/voxchunk/internal/geometry"
	"github.com/kdalton/voxchunk/internal/queue"
	"github.com/kdalton/voxchunk/internal/rafile"
	"github.com/kdalton/voxchunk/internal/vlog"
)

// waitTimeout bounds how long the I/O thread waits on a wake signal before
// rechecking cancellation on its own; it exists only so a cancelled run
// can never hang indefinitely even if a close-notification races with the
// shutdown of every worker queue.
const waitTimeout = 2 * time.Second

// WriterConfig configures one run of the block-compression writer
// pipeline (spec.md §4.4).
type WriterConfig struct {
	Grid        geometry.Grid
	ElementSize int
	Codec       codec.BlockCodec
	File        rafile.RandomAccessFile
	Workers     int
	QueueSlots  int
	Log         vlog.Logger
}

// WriteResult carries the block-offset table a writer run produced.
// Offsets has BlockCount()+1 entries: the start of every block plus a
// trailing sentinel equal to the offset index's own start (spec.md §3).
type WriteResult struct {
	Offsets []uint64
}

// RunWriter tiles src into blocks per cfg.Grid, compresses each block on a
// pool of cfg.Workers goroutines, and serializes the compressed blocks to
// cfg.File strictly in block-id order via a single in-process I/O
// "thread" (goroutine), per spec.md §4.4.
func RunWriter(cfg WriterConfig, src []byte) (WriteResult, error) {
	log := cfg.Log
	if log == nil {
		log = vlog.Nop{}
	}

	nBlk := cfg.Grid.BlockCount()
	if nBlk == 0 {
		return WriteResult{}, fmt.Errorf("pipeline: image has zero blocks")
	}

	nominalBytes := int(blockVolume(cfg.Grid.Block)) * cfg.ElementSize
	slotCap := codec.MaxCompressedSize(nominalBytes)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	queueSlots := cfg.QueueSlots
	if queueSlots < 1 {
		queueSlots = 4
	}

	queues := make([]*queue.BlockQueue, workers)
	wake := make(chan struct{}, 1)
	signal := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
	for i := range queues {
		queues[i] = queue.New(queueSlots, slotCap)
		queues[i].SetNotify(signal)
	}

	var errCell ErrCell
	var nextBlockID uint64

	// cancelAll closes every queue so a worker or the I/O thread blocked
	// on a full/empty queue wakes up instead of waiting on a pipeline
	// that has already failed elsewhere.
	cancelAll := func() {
		for _, q := range queues {
			q.Close()
		}
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			defer queues[w].Close()
			tile := make([]byte, nominalBytes)
			for {
				if errCell.Cancelled() {
					return
				}
				b := atomic.AddUint64(&nextBlockID, 1) - 1
				if b >= nBlk {
					return
				}
				rect := cfg.Grid.BlockPixelRect(b)
				rawLen := int(rect.Count()) * cfg.ElementSize
				copyRect(tile, rect.Size(), geometry.Rect{Hi: rect.Size()}, src, cfg.Grid.Image, rect, cfg.ElementSize)

				compressed, err := cfg.Codec.Compress(tile[:rawLen])
				if err != nil {
					if errCell.Set(fmt.Errorf("compressing block %d: %w", b, err)) {
						log.Errorf("writer worker %d: compress block %d: %v", w, b, err)
						cancelAll()
					}
					return
				}
				if len(compressed) > slotCap {
					if errCell.Set(fmt.Errorf("compressed block %d is %d bytes, exceeds slot capacity %d", b, len(compressed), slotCap)) {
						log.Errorf("writer worker %d: block %d overflowed its queue slot", w, b)
						cancelAll()
					}
					return
				}
				buf, ok := queues[w].ReserveWriteSlot()
				if !ok {
					return
				}
				copy(buf, compressed)
				queues[w].CommitWrite(len(compressed), b)
				log.Debugf("writer worker %d: compressed block %d (%d -> %d bytes)", w, b, rawLen, len(compressed))
			}
		}()
	}

	offsets := make([]uint64, nBlk+1)
	var eof uint64
	nextExpected := uint64(0)

	for nextExpected < nBlk {
		if errCell.Cancelled() {
			break
		}
		progressed := false
		for w := 0; w < workers; w++ {
			id, ok := queues[w].PeekID()
			if !ok || id != nextExpected {
				continue
			}
			payload, _, ok := queues[w].Wait()
			if !ok {
				continue
			}
			off, err := cfg.File.Append(payload)
			if err != nil {
				errCell.Set(fmt.Errorf("appending block %d: %w", nextExpected, err))
				log.Errorf("writer I/O thread: appending block %d: %v", nextExpected, err)
				cancelAll()
				break
			}
			offsets[nextExpected] = uint64(off)
			eof = uint64(off) + uint64(len(payload))
			queues[w].Pop()
			nextExpected++
			progressed = true
			break
		}
		if errCell.Cancelled() {
			break
		}
		if !progressed {
			select {
			case <-wake:
			case <-time.After(waitTimeout):
			}
		}
	}

	wg.Wait()
	for _, q := range queues {
		q.Close()
	}

	if err := errCell.Err(); err != nil {
		log.Warningf("writer pipeline cancelled: %v", err)
		return WriteResult{}, err
	}
	if nextExpected != nBlk {
		return WriteResult{}, fmt.Errorf("pipeline: writer stalled after %d of %d blocks", nextExpected, nBlk)
	}

	offsets[nBlk] = eof
	return WriteResult{Offsets: offsets}, nil
}

func blockVolume(block geometry.Vec) uint64 {
	v := uint64(1)
	for _, e := range block {
		v *= uint64(e)
	}
	return v
}
