// Package byteio provides fixed-width, endian-exact readers and writers
// over in-memory byte slices. It is the ByteIO facility the schema engine
// in package binspec treats as an external collaborator: binspec never
// does its own bit shifting over a raw []byte, it calls into a Reader or
// Writer here.
package byteio

import (
	"math"
)

// Reader provides sequential, bounds-checked access to a byte slice.
// Out-of-bounds reads panic; callers that need a recoverable error
// (binspec.Parse) wrap the whole decode traversal in a recover.
type Reader struct {
	bytes    []byte
	position int
	mark     int
}

// NewReader wraps b for sequential reading starting at offset 0.
func NewReader(b []byte) Reader {
	return Reader{bytes: b}
}

// Position returns the current read offset.
func (r *Reader) Position() int {
	return r.position
}

// Seek moves the read cursor to an absolute offset. Used by `pointer`
// fields, which must be able to jump both forward and backward.
func (r *Reader) Seek(pos int) {
	if pos < 0 || pos > len(r.bytes) {
		panic("byteio: seek out of bounds")
	}
	r.position = pos
}

// Skip advances the cursor by n bytes, which may be negative (`seek`
// fields support backward movement).
func (r *Reader) Skip(n int) {
	r.Seek(r.position + n)
}

// Len returns the total length of the wrapped buffer.
func (r *Reader) Len() int {
	return len(r.bytes)
}

// BytesLeft reports how many unread bytes remain.
func (r *Reader) BytesLeft() int {
	return len(r.bytes) - r.position
}

// AtEOF reports whether the cursor has reached the end of the buffer.
func (r *Reader) AtEOF() bool {
	return r.position >= len(r.bytes)
}

// Remaining returns a view of all unread bytes.
func (r *Reader) Remaining() []byte {
	return r.bytes[r.position:]
}

// FullBytes returns the entire wrapped buffer, regardless of cursor
// position. Used by the `formatter` hook, which receives the full buffer
// alongside the decoded value.
func (r *Reader) FullBytes() []byte {
	return r.bytes
}

// PeekByte returns the next byte without consuming it.
func (r *Reader) PeekByte() byte {
	if r.position >= len(r.bytes) {
		panic("byteio: peek out of bounds")
	}
	return r.bytes[r.position]
}

// SetMark saves the current position for a later BytesFromMark.
func (r *Reader) SetMark() {
	r.mark = r.position
}

// BytesFromMark returns the slice consumed since the last SetMark.
func (r *Reader) BytesFromMark() []byte {
	return r.bytes[r.mark:r.position]
}

// Read consumes and returns the next n bytes.
func (r *Reader) Read(n int) []byte {
	if n < 0 || r.position+n > len(r.bytes) {
		panic("byteio: read out of bounds")
	}
	p := r.position
	r.position += n
	return r.bytes[p : p+n]
}

// ReadByte consumes and returns the next byte.
func (r *Reader) ReadByte() byte {
	return r.Read(1)[0]
}

// ReadUint8 consumes a single unsigned byte.
func (r *Reader) ReadUint8() uint8 {
	return r.ReadByte()
}

// ReadInt8 consumes a single signed byte.
func (r *Reader) ReadInt8() int8 {
	return int8(r.ReadByte())
}

// ReadUint16BE consumes a big-endian uint16.
func (r *Reader) ReadUint16BE() uint16 {
	b := r.Read(2)
	return uint16(b[0])<<8 | uint16(b[1])
}

// ReadUint16LE consumes a little-endian uint16.
func (r *Reader) ReadUint16LE() uint16 {
	b := r.Read(2)
	return uint16(b[1])<<8 | uint16(b[0])
}

// ReadUint24BE consumes a big-endian 24-bit unsigned integer.
func (r *Reader) ReadUint24BE() uint32 {
	b := r.Read(3)
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// ReadUint24LE consumes a little-endian 24-bit unsigned integer.
func (r *Reader) ReadUint24LE() uint32 {
	b := r.Read(3)
	return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

// ReadUint32BE consumes a big-endian uint32.
func (r *Reader) ReadUint32BE() uint32 {
	b := r.Read(4)
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// ReadUint32LE consumes a little-endian uint32.
func (r *Reader) ReadUint32LE() uint32 {
	b := r.Read(4)
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

// ReadUint64BE consumes a big-endian uint64.
func (r *Reader) ReadUint64BE() uint64 {
	b := r.Read(8)
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// ReadUint64LE consumes a little-endian uint64.
func (r *Reader) ReadUint64LE() uint64 {
	b := r.Read(8)
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// ReadInt16BE consumes a big-endian int16.
func (r *Reader) ReadInt16BE() int16 { return int16(r.ReadUint16BE()) }

// ReadInt16LE consumes a little-endian int16.
func (r *Reader) ReadInt16LE() int16 { return int16(r.ReadUint16LE()) }

// ReadInt32BE consumes a big-endian int32.
func (r *Reader) ReadInt32BE() int32 { return int32(r.ReadUint32BE()) }

// ReadInt32LE consumes a little-endian int32.
func (r *Reader) ReadInt32LE() int32 { return int32(r.ReadUint32LE()) }

// ReadInt64BE consumes a big-endian int64.
func (r *Reader) ReadInt64BE() int64 { return int64(r.ReadUint64BE()) }

// ReadInt64LE consumes a little-endian int64.
func (r *Reader) ReadInt64LE() int64 { return int64(r.ReadUint64LE()) }

// ReadFloat32BE consumes a big-endian IEEE-754 single.
func (r *Reader) ReadFloat32BE() float32 { return math.Float32frombits(r.ReadUint32BE()) }

// ReadFloat32LE consumes a little-endian IEEE-754 single.
func (r *Reader) ReadFloat32LE() float32 { return math.Float32frombits(r.ReadUint32LE()) }

// ReadFloat64BE consumes a big-endian IEEE-754 double.
func (r *Reader) ReadFloat64BE() float64 { return math.Float64frombits(r.ReadUint64BE()) }

// ReadFloat64LE consumes a little-endian IEEE-754 double.
func (r *Reader) ReadFloat64LE() float64 { return math.Float64frombits(r.ReadUint64LE()) }
