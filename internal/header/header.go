package header

import (
	"errors"
	"fmt"

	"github.com/kdalton/voxchunk/internal/binary"
)

// Magic identifies a container file. Chosen to be distinctive in a hex dump
// while staying printable for the first few bytes, the way HDF5's own
// signature mixes a high bit, letters, and control characters.
var Magic = [8]byte{0x89, 'V', 'X', 'C', '\r', '\n', 0x1a, '\n'}

// Version is the only format version this package knows how to read or
// write. The spec reserves the version byte for future wire migrations.
const Version = 1

const numAxes = 5

// Sizes of the fixed-width header fields, in bytes.
const (
	sizeMagic       = 8
	sizeVersion     = 1
	sizePixelType   = 1
	sizeCompression = 1
	sizeReserved    = 5 // pads the fixed prelude to a multiple of 8 bytes
	sizeExtent      = numAxes * 4
	sizeBlock       = numAxes * 4
	sizePixelSize   = numAxes * 4
	sizeIndexOffset = 8
	sizeMetadataLen = 4

	// FixedSize is the length of everything up to and including the
	// metadata length prefix; the metadata bytes themselves follow.
	FixedSize = sizeMagic + sizeVersion + sizePixelType + sizeCompression + sizeReserved +
		sizeExtent + sizeBlock + sizePixelSize + sizeIndexOffset + sizeMetadataLen
)

// Errors returned by ReadHeader and ReadIndex. These map directly onto
// the closed public error-code set; callers outside this package wrap them
// with additional context.
var (
	ErrBadMagic            = errors.New("header: bad magic signature")
	ErrUnsupportedVersion  = errors.New("header: unsupported format version")
	ErrCorruptHeader       = errors.New("header: corrupt header")
	ErrTruncatedIndex      = errors.New("header: truncated offset index")
	ErrIndexNotMonotonic   = errors.New("header: offset index is not strictly increasing")
)

// Descriptor is the on-disk shape of an image descriptor: plain numeric
// fields only, independent of the richer public Descriptor type that wraps
// it with named pixel-type and compression-type constants.
type Descriptor struct {
	Extent      [numAxes]uint32
	Block       [numAxes]uint32
	PixelType   uint8
	Compression uint8
	PixelSize   [numAxes]float32
	Metadata    []byte
}

// WriteHeader emits the fixed-size header at byte 0 of w, with indexOffset
// set to the given placeholder (ordinarily 0 until PatchHeader runs).
func WriteHeader(w *binary.Writer, d Descriptor, indexOffset uint64) error {
	hw := w.At(0)
	if err := hw.WriteBytes(Magic[:]); err != nil {
		return err
	}
	if err := hw.WriteUint8(Version); err != nil {
		return err
	}
	if err := hw.WriteUint8(d.PixelType); err != nil {
		return err
	}
	if err := hw.WriteUint8(d.Compression); err != nil {
		return err
	}
	if err := hw.WriteZeros(sizeReserved); err != nil {
		return err
	}
	for _, v := range d.Extent {
		if err := hw.WriteUint32(v); err != nil {
			return err
		}
	}
	for _, v := range d.Block {
		if err := hw.WriteUint32(v); err != nil {
			return err
		}
	}
	for _, v := range d.PixelSize {
		if err := hw.WriteFloat32(v); err != nil {
			return err
		}
	}
	if err := hw.WriteUint64(indexOffset); err != nil {
		return err
	}
	if err := hw.WriteUint32(uint32(len(d.Metadata))); err != nil {
		return err
	}
	if err := hw.WriteBytes(d.Metadata); err != nil {
		return err
	}
	return nil
}

// PatchHeader overwrites only the index-offset field, used once the writer
// pipeline knows where the offset index landed. It never touches metadata or
// any other field, so it is safe to call after the rest of the header (and
// all block payloads) has already been written.
func PatchHeader(w *binary.Writer, indexOffset uint64) error {
	patchPos := int64(sizeMagic + sizeVersion + sizePixelType + sizeCompression + sizeReserved +
		sizeExtent + sizeBlock + sizePixelSize)
	return w.At(patchPos).WriteUint64(indexOffset)
}

// ReadHeader parses and validates the header at byte 0 of r, returning the
// decoded descriptor and the index offset recorded within it.
func ReadHeader(r *binary.Reader) (Descriptor, uint64, error) {
	hr := r.At(0)

	magic, err := hr.ReadBytes(sizeMagic)
	if err != nil {
		return Descriptor{}, 0, fmt.Errorf("reading magic: %w", ErrCorruptHeader)
	}
	for i := range Magic {
		if magic[i] != Magic[i] {
			return Descriptor{}, 0, ErrBadMagic
		}
	}

	version, err := hr.ReadUint8()
	if err != nil {
		return Descriptor{}, 0, fmt.Errorf("reading version: %w", ErrCorruptHeader)
	}
	if version != Version {
		return Descriptor{}, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var d Descriptor
	pixelType, err := hr.ReadUint8()
	if err != nil {
		return Descriptor{}, 0, fmt.Errorf("reading pixel type: %w", ErrCorruptHeader)
	}
	if !isRecognizedPixelType(pixelType) {
		return Descriptor{}, 0, fmt.Errorf("%w: unrecognized pixel type tag %d", ErrCorruptHeader, pixelType)
	}
	d.PixelType = pixelType

	compression, err := hr.ReadUint8()
	if err != nil {
		return Descriptor{}, 0, fmt.Errorf("reading compression tag: %w", ErrCorruptHeader)
	}
	d.Compression = compression

	hr.Skip(sizeReserved)

	for i := range d.Extent {
		v, err := hr.ReadUint32()
		if err != nil {
			return Descriptor{}, 0, fmt.Errorf("reading extent[%d]: %w", i, ErrCorruptHeader)
		}
		d.Extent[i] = v
	}
	for i := range d.Block {
		v, err := hr.ReadUint32()
		if err != nil {
			return Descriptor{}, 0, fmt.Errorf("reading block[%d]: %w", i, ErrCorruptHeader)
		}
		d.Block[i] = v
	}
	for i := range d.PixelSize {
		v, err := hr.ReadFloat32()
		if err != nil {
			return Descriptor{}, 0, fmt.Errorf("reading pixel size[%d]: %w", i, ErrCorruptHeader)
		}
		d.PixelSize[i] = v
	}

	indexOffset, err := hr.ReadUint64()
	if err != nil {
		return Descriptor{}, 0, fmt.Errorf("reading index offset: %w", ErrCorruptHeader)
	}

	metaLen, err := hr.ReadUint32()
	if err != nil {
		return Descriptor{}, 0, fmt.Errorf("reading metadata length: %w", ErrCorruptHeader)
	}
	if metaLen > 0 {
		meta, err := hr.ReadBytes(int(metaLen))
		if err != nil {
			return Descriptor{}, 0, fmt.Errorf("reading metadata: %w", ErrCorruptHeader)
		}
		d.Metadata = meta
	}

	for i := range d.Block {
		if d.Block[i] < 1 || d.Block[i] > d.Extent[i] {
			return Descriptor{}, 0, fmt.Errorf("%w: block extent axis %d out of range", ErrCorruptHeader, i)
		}
	}

	return d, indexOffset, nil
}

// isRecognizedPixelType reports whether tag is one of the closed set of
// pixel-type tags the root package's PixelType enum defines (unsigned and
// signed 8/16/32/64-bit integers, 32/64-bit float), mirroring the way
// codec.ByID rejects an unrecognized compression tag rather than silently
// accepting it and letting a bogus value surface later as a decode failure.
func isRecognizedPixelType(tag uint8) bool {
	switch tag {
	case 0, 1, 2, 3, 4, 5, 6, 7, 8, 9:
		return true
	default:
		return false
	}
}

// HeaderLen returns the total on-disk length of a header with the given
// metadata size, used by callers that need to know where block 0 starts.
func HeaderLen(metadataLen int) int64 {
	return int64(FixedSize + metadataLen)
}
