package byteio

import (
	"bytes"
	"testing"
)

func TestWriterFixedWidthRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.AppendUint16BE(0x1234)
	w.AppendUint16LE(0x1234)
	w.AppendUint32BE(0xdeadbeef)
	w.AppendUint64LE(0x0102030405060708)

	r := NewReader(w.Bytes)
	if got := r.ReadUint16BE(); got != 0x1234 {
		t.Fatalf("ReadUint16BE = %#x", got)
	}
	if got := r.ReadUint16LE(); got != 0x1234 {
		t.Fatalf("ReadUint16LE = %#x", got)
	}
	if got := r.ReadUint32BE(); got != 0xdeadbeef {
		t.Fatalf("ReadUint32BE = %#x", got)
	}
	if got := r.ReadUint64LE(); got != 0x0102030405060708 {
		t.Fatalf("ReadUint64LE = %#x", got)
	}
}

func TestWriterTruncate(t *testing.T) {
	w := NewWriter(0)
	w.AppendBytes([]byte{1, 2, 3, 4, 5})
	w.Truncate(3)
	if !bytes.Equal(w.Bytes, []byte{1, 2, 3}) {
		t.Fatalf("Truncate result = %v", w.Bytes)
	}
}

func TestWriterPool(t *testing.T) {
	w := NewWriterFromPool(16)
	w.AppendBytes([]byte{1, 2, 3})
	w.ReturnToPool()

	w2 := NewWriterFromPool(4)
	if w2.Len() != 0 {
		t.Fatalf("pooled writer not reset, len=%d", w2.Len())
	}
}
