// Package box defines the box tree produced by a walk: the header shared by
// every box, the payload kinds and the queries callers run over a tree.
package box

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FourCC is a four-character box type code packed MSB first.
type FourCC uint32

// ParseFourCC packs a four-character string. Shorter strings are padded
// with spaces ("url" becomes "url "), and a leading '©' stands for the
// single byte 0xA9 iTunes uses.
func ParseFourCC(s string) (FourCC, error) {
	s = strings.Replace(s, "©", "\xa9", 1)
	if len(s) > 4 || len(s) == 0 {
		return 0, fmt.Errorf("invalid four-character code %q", s)
	}
	s += strings.Repeat(" ", 4-len(s))
	return FourCC(uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3])), nil
}

// MustFourCC is like ParseFourCC but panics on invalid input. It is meant
// for package-level tables.
func MustFourCC(s string) FourCC {
	t, err := ParseFourCC(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t FourCC) String() string {
	var sb strings.Builder
	for _, c := range []byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)} {
		switch {
		case c == 0xa9:
			sb.WriteRune('©')
		case c < 0x20 || c > 0x7e:
			sb.WriteByte('.')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// MarshalText renders the code as its four characters.
func (t FourCC) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Well-known types the walker and tree queries refer to directly.
var (
	TypeUUID = MustFourCC("uuid")
	TypeFtyp = MustFourCC("ftyp")
	TypeMoov = MustFourCC("moov")
	TypeMdat = MustFourCC("mdat")
)

// Header is the envelope every box begins with.
type Header struct {
	// Size is the declared size including the header. 1 means LargeSize
	// holds the real size.
	Size      uint32 `json:"size"`
	LargeSize uint64 `json:"large_size,omitempty"`
	Type      FourCC `json:"type"`

	// Offset is the absolute offset of the first header byte.
	Offset uint64 `json:"offset"`

	// HeaderLen is the number of bytes the header occupied, including
	// largesize, uuid and version/flags when present.
	HeaderLen uint64 `json:"header_len"`

	// Full is set for FullBox variants; Version and Flags are only
	// meaningful then.
	Full    bool   `json:"full,omitempty"`
	Version uint8  `json:"version,omitempty"`
	Flags   uint32 `json:"flags,omitempty"`

	// UUID holds the extended type of a uuid box. Extension names it when
	// it is one of the known extension UUIDs.
	UUID      uuid.UUID `json:"uuid,omitzero"`
	Extension string    `json:"extension,omitempty"`
}

// EffectiveSize returns the box size in bytes, taking largesize into account.
func (h *Header) EffectiveSize() uint64 {
	if h.Size == 1 {
		return h.LargeSize
	}
	return uint64(h.Size)
}

// End returns the offset one past the last byte of the box.
func (h *Header) End() uint64 {
	return h.Offset + h.EffectiveSize()
}

// ContentOffset returns the offset of the first byte after the header.
func (h *Header) ContentOffset() uint64 {
	return h.Offset + h.HeaderLen
}

// HasFlag reports whether every bit of mask is set in Flags.
func (h *Header) HasFlag(mask uint32) bool {
	return h.Flags&mask == mask
}

// Box is one node of the decoded tree.
//
// Payload holds a pointer to the kind-specific struct (for example
// *MovieHeader for KindMovieHeader). Kinds without fields of their own,
// such as pure containers, have a nil Payload.
type Box struct {
	Header

	Kind      Kind   `json:"kind"`
	Container bool   `json:"container,omitempty"`
	Payload   any    `json:"fields,omitempty"`
	Children  []*Box `json:"children,omitempty"`
}

func (b *Box) String() string {
	return fmt.Sprintf("%s @%d (%d bytes)", b.Type, b.Offset, b.EffectiveSize())
}

// Child returns the first direct child of type t, or nil.
func (b *Box) Child(t FourCC) *Box {
	for _, c := range b.Children {
		if c.Type == t {
			return c
		}
	}
	return nil
}

// ChildrenOf returns every direct child of type t.
func (b *Box) ChildrenOf(t FourCC) []*Box {
	var out []*Box
	for _, c := range b.Children {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits boxes depth-first in file order. Returning false from fn
// skips the children of the box just visited.
func Walk(roots []*Box, fn func(b *Box, depth int) bool) {
	walk(roots, 0, fn)
}

func walk(boxes []*Box, depth int, fn func(*Box, int) bool) {
	for _, b := range boxes {
		if fn(b, depth) {
			walk(b.Children, depth+1, fn)
		}
	}
}

// Find returns all boxes matching a slash separated type path such as
// "moov/trak/mdia/mdhd", starting at the roots. A "*" element matches any
// type.
func Find(roots []*Box, path string) []*Box {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	current := roots
	for i, p := range parts {
		var next []*Box
		for _, b := range current {
			if p != "*" && b.Type.String() != padType(p) {
				continue
			}
			if i == len(parts)-1 {
				next = append(next, b)
			} else {
				next = append(next, b.Children...)
			}
		}
		current = next
	}
	return current
}

// FindFirst is like Find but returns only the first match, or nil.
func FindFirst(roots []*Box, path string) *Box {
	if found := Find(roots, path); len(found) > 0 {
		return found[0]
	}
	return nil
}

// FindAll returns every box of type t anywhere in the tree, in file order.
func FindAll(roots []*Box, t FourCC) []*Box {
	var out []*Box
	Walk(roots, func(b *Box, _ int) bool {
		if b.Type == t {
			out = append(out, b)
		}
		return true
	})
	return out
}

func padType(s string) string {
	if len(s) < 4 {
		return s + strings.Repeat(" ", 4-len(s))
	}
	return s
}

// mp4Epoch is the zero point of creation and modification times.
var mp4Epoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// Time converts a creation or modification time (seconds since 1904) to
// a time.Time.
func Time(secs uint64) time.Time {
	return mp4Epoch.Add(time.Duration(secs) * time.Second)
}

// Fixed16 converts a 16.16 fixed-point value.
func Fixed16(v uint32) float64 {
	return float64(v) / 65536
}

// Fixed8 converts an 8.8 fixed-point value.
func Fixed8(v uint16) float64 {
	return float64(v) / 256
}
