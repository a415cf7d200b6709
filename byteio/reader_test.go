package byteio

import "testing"

func TestReaderFixedWidth(t *testing.T) {
	r := NewReader([]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0})

	if got := r.ReadUint16BE(); got != 0x1234 {
		t.Fatalf("ReadUint16BE = %#x, want 0x1234", got)
	}
	r.Seek(0)
	if got := r.ReadUint16LE(); got != 0x3412 {
		t.Fatalf("ReadUint16LE = %#x, want 0x3412", got)
	}
	r.Seek(0)
	if got := r.ReadUint32BE(); got != 0x12345678 {
		t.Fatalf("ReadUint32BE = %#x, want 0x12345678", got)
	}
	r.Seek(0)
	if got := r.ReadUint32LE(); got != 0x78563412 {
		t.Fatalf("ReadUint32LE = %#x, want 0x78563412", got)
	}
	r.Seek(0)
	if got := r.ReadUint64BE(); got != 0x123456789abcdef0 {
		t.Fatalf("ReadUint64BE = %#x, want 0x123456789abcdef0", got)
	}
}

func TestReaderUint24(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})
	if got := r.ReadUint24BE(); got != 0x010203 {
		t.Fatalf("ReadUint24BE = %#x, want 0x010203", got)
	}
	r.Seek(0)
	if got := r.ReadUint24LE(); got != 0x030201 {
		t.Fatalf("ReadUint24LE = %#x, want 0x030201", got)
	}
}

func TestReaderOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-bounds read")
		}
	}()
	r := NewReader([]byte{0x01})
	r.Read(2)
}

func TestReaderSeekAndSkip(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5})
	r.Skip(3)
	if r.Position() != 3 {
		t.Fatalf("Position = %d, want 3", r.Position())
	}
	r.Skip(-2)
	if r.Position() != 1 {
		t.Fatalf("Position = %d, want 1", r.Position())
	}
	if got := r.ReadByte(); got != 2 {
		t.Fatalf("ReadByte = %d, want 2", got)
	}
}

func TestReaderMark(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	r.SetMark()
	r.Skip(3)
	got := r.BytesFromMark()
	want := []byte{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("BytesFromMark = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("BytesFromMark = %v, want %v", got, want)
		}
	}
}
