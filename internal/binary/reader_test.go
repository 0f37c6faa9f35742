package binary

import "testing"

// bytesReaderAt wraps a byte slice to implement io.ReaderAt.
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, nil
	}
	n := copy(p, b[off:])
	return n, nil
}

func TestReaderReadUint8(t *testing.T) {
	data := bytesReaderAt{0x42, 0xFF, 0x00}
	r := NewReader(data)

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}
	if r.Pos() != 1 {
		t.Errorf("expected pos 1, got %d", r.Pos())
	}
}

func TestReaderReadUint32LE(t *testing.T) {
	data := bytesReaderAt{0x01, 0x02, 0x03, 0x04}
	r := NewReader(data)

	v, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 0x04030201 {
		t.Errorf("expected 0x04030201, got 0x%08x", v)
	}
}

func TestReaderReadUint64LE(t *testing.T) {
	data := bytesReaderAt{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	r := NewReader(data)

	v, err := r.ReadUint64()
	if err != nil {
		t.Fatalf("ReadUint64 failed: %v", err)
	}
	if v != 0x0807060504030201 {
		t.Errorf("expected 0x0807060504030201, got 0x%016x", v)
	}
}

func TestReaderAtAndSkip(t *testing.T) {
	data := bytesReaderAt{0xAA, 0xBB, 0x01, 0x00, 0x00, 0x00}
	r := NewReader(data).At(2)
	v, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 1 {
		t.Errorf("expected 1, got %d", v)
	}

	r2 := NewReader(data)
	r2.Skip(2)
	if r2.Pos() != 2 {
		t.Errorf("expected pos 2 after skip, got %d", r2.Pos())
	}
}
