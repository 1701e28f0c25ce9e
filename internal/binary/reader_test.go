package binary

import (
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/simonhull/isobmff/internal/types"
)

// mockReader implements io.ReaderAt for testing.
type mockReader struct {
	data []byte
}

func (m *mockReader) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func newTestReader(data []byte) *SafeReader {
	return NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp4")
}

func TestSafeReader_ReadAt_Success(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x02, 0x03, 0x04})

	buf := make([]byte, 2)
	if err := sr.ReadAt(buf, 0, "test read"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Errorf("expected [0x01, 0x02], got [0x%02x, 0x%02x]", buf[0], buf[1])
	}
}

func TestSafeReader_ReadAt_OutOfRange(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x02, 0x03, 0x04})

	tests := []struct {
		name   string
		offset int64
		length int
	}{
		{"offset past end", 10, 2},
		{"span crosses end", 3, 2},
		{"negative offset", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ReadAt(make([]byte, tt.length), tt.offset, "box header")
			var oor *types.OutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("expected *types.OutOfRangeError, got %T (%v)", err, err)
			}
			if oor.Size != 4 || oor.Offset != tt.offset {
				t.Errorf("error fields = %+v", oor)
			}
			if !strings.Contains(err.Error(), "test.mp4") || !strings.Contains(err.Error(), "box header") {
				t.Errorf("error should carry path and context: %v", err)
			}
		})
	}
}

func TestRead_Widths(t *testing.T) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, 0x123456789ABCDEF0)
	sr := newTestReader(data)

	if v, err := Read[uint8](sr, 0, "u8"); err != nil || v != 0x12 {
		t.Errorf("Read[uint8] = 0x%x, %v", v, err)
	}
	if v, err := Read[uint16](sr, 0, "u16"); err != nil || v != 0x1234 {
		t.Errorf("Read[uint16] = 0x%x, %v", v, err)
	}
	if v, err := Read[uint32](sr, 4, "u32"); err != nil || v != 0x9ABCDEF0 {
		t.Errorf("Read[uint32] = 0x%x, %v", v, err)
	}
	if v, err := Read[uint64](sr, 0, "u64"); err != nil || v != 0x123456789ABCDEF0 {
		t.Errorf("Read[uint64] = 0x%x, %v", v, err)
	}
}

func TestReader_Sequential(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	r := NewReader(sr, 0)

	val1, err := ReadValue[uint8](r, "first byte")
	if err != nil {
		t.Fatalf("read 1 failed: %v", err)
	}
	if val1 != 0x01 {
		t.Errorf("expected 0x01, got 0x%02x", val1)
	}

	val2, err := ReadValue[uint16](r, "second word")
	if err != nil {
		t.Fatalf("read 2 failed: %v", err)
	}
	if val2 != 0x0203 {
		t.Errorf("expected 0x0203, got 0x%04x", val2)
	}

	if r.Offset() != 3 {
		t.Errorf("expected offset 3, got %d", r.Offset())
	}
	if r.Remaining() != 5 {
		t.Errorf("expected 5 bytes remaining, got %d", r.Remaining())
	}
}

func TestReader_Uint24(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0xFF, 0xFF, 0xFF})
	r := NewReader(sr, 0)

	version, _ := ReadValue[uint8](r, "version")
	flags, err := r.ReadUint24("flags")
	if err != nil {
		t.Fatalf("ReadUint24 failed: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
	if flags != 0xFFFFFF {
		t.Errorf("flags = 0x%x, want 0xFFFFFF", flags)
	}
	if flags >= 1<<24 {
		t.Errorf("24-bit read produced value outside [0, 2^24)")
	}
}

func TestReader_SkipAndSeekTo(t *testing.T) {
	sr := newTestReader([]byte("abcdefgh"))
	r := NewReader(sr, 0)

	r.Skip(4)
	s, err := r.ReadString(2, "after skip")
	if err != nil || s != "ef" {
		t.Fatalf("ReadString = %q, %v; want \"ef\"", s, err)
	}

	r.SeekTo(1)
	s, err = r.ReadString(3, "after seek")
	if err != nil || s != "bcd" {
		t.Fatalf("ReadString = %q, %v; want \"bcd\"", s, err)
	}
}

func TestBoundedReader_StopsAtLimit(t *testing.T) {
	sr := newTestReader([]byte{0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3})
	r := NewBoundedReader(sr, 0, 6)

	if _, err := ReadValue[uint32](r, "first"); err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	_, err := ReadValue[uint32](r, "second")

	var oor *types.OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected *types.OutOfRangeError, got %T", err)
	}
	if !oor.Limit || oor.Size != 6 {
		t.Errorf("expected box limit 6 in error, got %+v", oor)
	}
	if r.Offset() != 4 {
		t.Errorf("failed read must not advance, offset = %d", r.Offset())
	}
}

func TestBoundedReader_LimitAtSourceEnd(t *testing.T) {
	sr := newTestReader([]byte{0, 0, 0, 1})

	_, err := ReadValue[uint64](NewBoundedReader(sr, 0, 4), "box field")
	var oor *types.OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected *types.OutOfRangeError, got %T", err)
	}
	if !oor.Limit {
		t.Errorf("a box ending at the source end should report the box end, got %v", err)
	}

	_, err = ReadValue[uint64](NewReader(sr, 0), "field")
	if !errors.As(err, &oor) {
		t.Fatalf("expected *types.OutOfRangeError, got %T", err)
	}
	if oor.Limit {
		t.Errorf("an unbounded reader should report the source size, got %v", err)
	}
}

func TestBoundedReader_ClampsToSource(t *testing.T) {
	sr := newTestReader([]byte{1, 2, 3})
	r := NewBoundedReader(sr, 0, 100)
	if r.End() != 3 {
		t.Errorf("End() = %d, want 3", r.End())
	}
}

func TestChainReader_Success(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x03, 'a', 'v', 'c', '1', 0xAA, 0xBB})
	cr := NewChainReader(NewReader(sr, 0))

	v1 := ReadChained[uint8](cr, "byte")
	v2 := ReadChained[uint16](cr, "word")
	v3 := ReadChained[uint32](cr, "dword")
	s := cr.String(4, "fourcc")
	rest := cr.Rest("tail")

	if err := cr.Error(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1 != 1 || v2 != 2 || v3 != 3 || s != "avc1" {
		t.Errorf("got %d %d %d %q", v1, v2, v3, s)
	}
	if len(rest) != 2 || rest[0] != 0xAA {
		t.Errorf("Rest() = %x", rest)
	}
}

func TestChainReader_ErrorAccumulation(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x02})
	cr := NewChainReader(NewReader(sr, 0))

	ReadChained[uint8](cr, "ok")
	ReadChained[uint32](cr, "too long")
	v := ReadChained[uint8](cr, "after failure")

	if cr.Error() == nil {
		t.Fatal("expected accumulated error")
	}
	if !strings.Contains(cr.Error().Error(), "too long") {
		t.Errorf("error should name the first failing read: %v", cr.Error())
	}
	if v != 0 {
		t.Errorf("reads after a failure must return zero, got %d", v)
	}
	if cr.Bytes(1, "bytes") != nil || cr.Uint24("flags") != 0 {
		t.Error("reads after a failure must not succeed")
	}
}

func BenchmarkRead_Uint32(b *testing.B) {
	data := make([]byte, 1024)
	sr := newTestReader(data)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Read[uint32](sr, 512, "bench")
	}
}

func BenchmarkChainReader_Header(b *testing.B) {
	data := make([]byte, 1024)
	sr := newTestReader(data)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		cr := NewChainReader(NewReader(sr, 0))
		_ = ReadChained[uint32](cr, "size")
		_ = ReadChained[uint32](cr, "type")
		_ = ReadChained[uint8](cr, "version")
		_ = cr.Uint24("flags")
	}
}
