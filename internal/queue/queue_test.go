package queue

import (
	"sync"
	"testing"
	"time"
)

func TestReserveCommitWaitPop(t *testing.T) {
	q := New(2, 16)

	buf, ok := q.ReserveWriteSlot()
	if !ok {
		t.Fatal("ReserveWriteSlot: not ok")
	}
	copy(buf, []byte("hello"))
	q.CommitWrite(5, 7)

	payload, id, ok := q.Wait()
	if !ok {
		t.Fatal("Wait: not ok")
	}
	if string(payload) != "hello" {
		t.Fatalf("payload = %q, want %q", payload, "hello")
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	q.Pop()
}

func TestPeekIDDoesNotConsume(t *testing.T) {
	q := New(2, 16)
	buf, _ := q.ReserveWriteSlot()
	copy(buf, []byte("x"))
	q.CommitWrite(1, 3)

	id, ok := q.PeekID()
	if !ok || id != 3 {
		t.Fatalf("PeekID = (%d,%v), want (3,true)", id, ok)
	}
	// Peek again: still there, nothing consumed.
	id, ok = q.PeekID()
	if !ok || id != 3 {
		t.Fatalf("second PeekID = (%d,%v), want (3,true)", id, ok)
	}

	_, gotID, ok := q.Wait()
	if !ok || gotID != 3 {
		t.Fatalf("Wait = (%d,%v), want (3,true)", gotID, ok)
	}
	q.Pop()

	if _, ok := q.PeekID(); ok {
		t.Fatal("PeekID after Pop should report empty")
	}
}

func TestBackpressureBlocksProducerUntilConsumerPops(t *testing.T) {
	q := New(1, 8)

	buf, _ := q.ReserveWriteSlot()
	copy(buf, []byte("a"))
	q.CommitWrite(1, 0)

	reserved := make(chan struct{})
	go func() {
		q.ReserveWriteSlot()
		close(reserved)
	}()

	select {
	case <-reserved:
		t.Fatal("second ReserveWriteSlot returned before the queue had space")
	case <-time.After(30 * time.Millisecond):
	}

	payload, _, _ := q.Wait()
	if string(payload) != "a" {
		t.Fatalf("payload = %q, want %q", payload, "a")
	}
	q.Pop()

	select {
	case <-reserved:
	case <-time.After(time.Second):
		t.Fatal("second ReserveWriteSlot never unblocked after Pop")
	}
}

func TestCloseWakesBlockedWaiters(t *testing.T) {
	q := New(1, 8)

	done := make(chan bool)
	go func() {
		_, _, ok := q.Wait()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("Wait returned ok=true after Close with nothing pending")
		}
	case <-time.After(time.Second):
		t.Fatal("Wait never woke up after Close")
	}
}

func TestSPSCOrderingPreservedUnderFIFO(t *testing.T) {
	q := New(4, 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := byte(0); i < 20; i++ {
			buf, ok := q.ReserveWriteSlot()
			if !ok {
				return
			}
			buf[0] = i
			q.CommitWrite(1, uint64(i))
		}
	}()

	for i := byte(0); i < 20; i++ {
		payload, id, ok := q.Wait()
		if !ok {
			t.Fatalf("Wait failed before item %d", i)
		}
		if payload[0] != i || id != uint64(i) {
			t.Fatalf("item %d out of order: payload=%d id=%d", i, payload[0], id)
		}
		q.Pop()
	}
	wg.Wait()
}

func TestNotifyFiresOnCommitAndClose(t *testing.T) {
	q := New(1, 8)
	fired := make(chan struct{}, 4)
	q.SetNotify(func() { fired <- struct{}{} })

	buf, _ := q.ReserveWriteSlot()
	copy(buf, []byte("a"))
	q.CommitWrite(1, 1)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("notify not called after CommitWrite")
	}

	q.Close()
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("notify not called after Close")
	}
}
