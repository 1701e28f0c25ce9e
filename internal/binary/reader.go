// Package binary provides type-safe big-endian reading primitives with bounds checking
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/isobmff/internal/types"
)

// Source is the random-access byte source a walk reads from.
type Source interface {
	io.ReaderAt
	Size() int64
}

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the name associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the total number of addressable bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads len(b) bytes at off. Any read that would cross the end of
// the source fails with *types.OutOfRangeError.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &types.OutOfRangeError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%sfailed to read %s at offset %d: %w", pathPrefix(sr.path), what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%sshort read for %s at offset %d: got %d bytes, expected %d",
			pathPrefix(sr.path), what, off, n, len(b))
	}

	return nil
}

func pathPrefix(path string) string {
	if path == "" {
		return ""
	}
	return path + ": "
}

func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

func decode[T uint8 | uint16 | uint32 | uint64](buf []byte) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(binary.BigEndian.Uint16(buf))
	case uint32:
		return T(binary.BigEndian.Uint32(buf))
	default:
		return T(binary.BigEndian.Uint64(buf))
	}
}

// Read reads a big-endian value of type T from the given offset.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	var scratch [8]byte
	buf := scratch[:sizeOf[T]()]
	if err := sr.ReadAt(buf, off, what); err != nil {
		var zero T
		return zero, err
	}
	return decode[T](buf), nil
}

// Reader provides sequential reading with automatic offset tracking.
//
// A Reader may carry a limit below the source size. Reads that would cross
// the limit fail the same way reads past the source end do, which keeps a
// box decoder inside the bytes its box declared.
type Reader struct {
	*SafeReader
	offset  int64
	limit   int64
	bounded bool
}

// NewReader creates a new Reader starting at the given offset, limited
// only by the source size.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
		limit:      sr.size,
	}
}

// NewBoundedReader creates a Reader over [offset, end). end is clamped to
// the source size.
func NewBoundedReader(sr *SafeReader, offset, end int64) *Reader {
	r := NewReader(sr, offset)
	r.bounded = true
	if end < r.limit {
		r.limit = end
	}
	return r
}

func (r *Reader) check(n int, what string) error {
	if r.offset < 0 || r.offset+int64(n) > r.limit {
		return &types.OutOfRangeError{
			Path:   r.path,
			What:   what,
			Offset: r.offset,
			Length: n,
			Size:   r.limit,
			Limit:  r.bounded,
		}
	}
	return nil
}

// ReadValue reads a numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	n := sizeOf[T]()
	if err := r.check(n, what); err != nil {
		var zero T
		return zero, err
	}
	val, err := Read[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}
	r.offset += int64(n)
	return val, nil
}

// ReadUint24 reads a 24-bit big-endian value into the low bits of a uint32.
func (r *Reader) ReadUint24(what string) (uint32, error) {
	var buf [3]byte
	if err := r.read(buf[:], what); err != nil {
		return 0, err
	}
	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]), nil
}

// ReadBytes reads n raw bytes and advances the offset.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d for %s", n, what)
	}
	if err := r.check(n, what); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := r.SafeReader.ReadAt(buf, r.offset, what); err != nil {
		return nil, err
	}
	r.offset += int64(n)
	return buf, nil
}

// ReadString reads a string of the given length and advances the offset.
func (r *Reader) ReadString(length int, what string) (string, error) {
	buf, err := r.ReadBytes(length, what)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (r *Reader) read(b []byte, what string) error {
	if err := r.check(len(b), what); err != nil {
		return err
	}
	if err := r.SafeReader.ReadAt(b, r.offset, what); err != nil {
		return err
	}
	r.offset += int64(len(b))
	return nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// SeekTo moves the offset to an absolute position.
func (r *Reader) SeekTo(off int64) {
	r.offset = off
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// End returns the offset reads are bounded by.
func (r *Reader) End() int64 {
	return r.limit
}

// Remaining returns the number of bytes between the offset and the end.
func (r *Reader) Remaining() int64 {
	if r.offset >= r.limit {
		return 0
	}
	return r.limit - r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// Uint24 reads a 24-bit value, accumulating any error.
func (cr *ChainReader) Uint24(what string) uint32 {
	if cr.err != nil {
		return 0
	}
	val, err := cr.Reader.ReadUint24(what)
	if err != nil {
		cr.err = err
		return 0
	}
	return val
}

// Bytes reads n raw bytes, accumulating any error.
func (cr *ChainReader) Bytes(n int, what string) []byte {
	if cr.err != nil {
		return nil
	}
	val, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.err = err
		return nil
	}
	return val
}

// String reads a string, accumulating any error.
func (cr *ChainReader) String(length int, what string) string {
	if cr.err != nil {
		return ""
	}

	val, err := cr.Reader.ReadString(length, what)
	if err != nil {
		cr.err = err
		return ""
	}

	return val
}

// Rest reads every byte left before the end.
func (cr *ChainReader) Rest(what string) []byte {
	return cr.Bytes(int(cr.Remaining()), what)
}

// Fail records err unless an earlier error is already pending.
func (cr *ChainReader) Fail(err error) {
	if cr.err == nil {
		cr.err = err
	}
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
