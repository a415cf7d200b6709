package byteio

import (
	"math"
	"sync"
)

// Writer accumulates encoded output into a growable byte sink. All
// writes are appends; Truncate and Reset are the only ways to shrink it.
type Writer struct {
	Bytes []byte
}

var writerPool = sync.Pool{
	New: func() any { return &Writer{} },
}

// NewWriter returns a Writer with the given initial capacity hint
// (the schema `smartBufferSize` option).
func NewWriter(capHint int) *Writer {
	if capHint <= 0 {
		capHint = 256
	}
	return &Writer{Bytes: make([]byte, 0, capHint)}
}

// NewWriterFromPool obtains a reset Writer from a shared pool. Call
// ReturnToPool when finished encoding.
func NewWriterFromPool(capHint int) *Writer {
	if capHint <= 0 {
		capHint = 256
	}
	w := writerPool.Get().(*Writer)
	if cap(w.Bytes) < capHint {
		w.Bytes = make([]byte, 0, capHint)
	} else {
		w.Bytes = w.Bytes[:0]
	}
	return w
}

// ReturnToPool releases the Writer back to the pool. Using it afterward
// is undefined behavior.
func (w *Writer) ReturnToPool() {
	writerPool.Put(w)
}

// Reset empties the writer but keeps its backing array.
func (w *Writer) Reset() {
	w.Bytes = w.Bytes[:0]
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.Bytes)
}

// Truncate shrinks the written bytes to the first n, used for
// `lengthInBytes` array post-truncation.
func (w *Writer) Truncate(n int) {
	if n < 0 || n > len(w.Bytes) {
		panic("byteio: truncate out of bounds")
	}
	w.Bytes = w.Bytes[:n]
}

// AppendBytes writes b verbatim.
func (w *Writer) AppendBytes(b []byte) {
	w.Bytes = append(w.Bytes, b...)
}

// AppendByte writes a single byte.
func (w *Writer) AppendByte(b byte) {
	w.Bytes = append(w.Bytes, b)
}

// AppendUint8 writes an unsigned byte.
func (w *Writer) AppendUint8(v uint8) {
	w.AppendByte(v)
}

// AppendInt8 writes a signed byte.
func (w *Writer) AppendInt8(v int8) {
	w.AppendByte(byte(v))
}

// AppendUint16BE writes a big-endian uint16.
func (w *Writer) AppendUint16BE(v uint16) {
	w.Bytes = append(w.Bytes, byte(v>>8), byte(v))
}

// AppendUint16LE writes a little-endian uint16.
func (w *Writer) AppendUint16LE(v uint16) {
	w.Bytes = append(w.Bytes, byte(v), byte(v>>8))
}

// AppendUint24BE writes the low 24 bits of v big-endian.
func (w *Writer) AppendUint24BE(v uint32) {
	w.Bytes = append(w.Bytes, byte(v>>16), byte(v>>8), byte(v))
}

// AppendUint24LE writes the low 24 bits of v little-endian.
func (w *Writer) AppendUint24LE(v uint32) {
	w.Bytes = append(w.Bytes, byte(v), byte(v>>8), byte(v>>16))
}

// AppendUint32BE writes a big-endian uint32.
func (w *Writer) AppendUint32BE(v uint32) {
	w.Bytes = append(w.Bytes, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// AppendUint32LE writes a little-endian uint32.
func (w *Writer) AppendUint32LE(v uint32) {
	w.Bytes = append(w.Bytes, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// AppendUint64BE writes a big-endian uint64.
func (w *Writer) AppendUint64BE(v uint64) {
	for i := 7; i >= 0; i-- {
		w.Bytes = append(w.Bytes, byte(v>>(8*uint(i))))
	}
}

// AppendUint64LE writes a little-endian uint64.
func (w *Writer) AppendUint64LE(v uint64) {
	for i := 0; i < 8; i++ {
		w.Bytes = append(w.Bytes, byte(v>>(8*uint(i))))
	}
}

// AppendInt16BE writes a big-endian int16.
func (w *Writer) AppendInt16BE(v int16) { w.AppendUint16BE(uint16(v)) }

// AppendInt16LE writes a little-endian int16.
func (w *Writer) AppendInt16LE(v int16) { w.AppendUint16LE(uint16(v)) }

// AppendInt32BE writes a big-endian int32.
func (w *Writer) AppendInt32BE(v int32) { w.AppendUint32BE(uint32(v)) }

// AppendInt32LE writes a little-endian int32.
func (w *Writer) AppendInt32LE(v int32) { w.AppendUint32LE(uint32(v)) }

// AppendInt64BE writes a big-endian int64.
func (w *Writer) AppendInt64BE(v int64) { w.AppendUint64BE(uint64(v)) }

// AppendInt64LE writes a little-endian int64.
func (w *Writer) AppendInt64LE(v int64) { w.AppendUint64LE(uint64(v)) }

// AppendFloat32BE writes a big-endian IEEE-754 single.
func (w *Writer) AppendFloat32BE(v float32) { w.AppendUint32BE(math.Float32bits(v)) }

// AppendFloat32LE writes a little-endian IEEE-754 single.
func (w *Writer) AppendFloat32LE(v float32) { w.AppendUint32LE(math.Float32bits(v)) }

// AppendFloat64BE writes a big-endian IEEE-754 double.
func (w *Writer) AppendFloat64BE(v float64) { w.AppendUint64BE(math.Float64bits(v)) }

// AppendFloat64LE writes a little-endian IEEE-754 double.
func (w *Writer) AppendFloat64LE(v float64) { w.AppendUint64LE(math.Float64bits(v)) }
