// Package boxtest builds box bytes for tests.
//
// Every helper returns a fresh byte slice so fixtures compose by nesting:
//
//	boxtest.Box("moov", boxtest.FullBox("mvhd", 0, 0, fields...))
package boxtest

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
	"github.com/icza/bitio"

	"github.com/simonhull/isobmff/internal/binary"
)

func write(fn func(sw *binary.SafeWriter) error) []byte {
	buf := &bytes.Buffer{}
	if err := fn(binary.NewSafeWriter(buf)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// U8 encodes v.
func U8(v uint8) []byte {
	return write(func(sw *binary.SafeWriter) error { return binary.Write(sw, v) })
}

// U16 encodes v big-endian.
func U16(v uint16) []byte {
	return write(func(sw *binary.SafeWriter) error { return binary.Write(sw, v) })
}

// U24 encodes the low 24 bits of v big-endian.
func U24(v uint32) []byte {
	return write(func(sw *binary.SafeWriter) error { return sw.WriteUint24(v) })
}

// U32 encodes v big-endian.
func U32(v uint32) []byte {
	return write(func(sw *binary.SafeWriter) error { return binary.Write(sw, v) })
}

// U64 encodes v big-endian.
func U64(v uint64) []byte {
	return write(func(sw *binary.SafeWriter) error { return binary.Write(sw, v) })
}

// Str returns the bytes of s.
func Str(s string) []byte {
	return []byte(s)
}

// Zeros returns n zero bytes.
func Zeros(n int) []byte {
	return make([]byte, n)
}

// Cat concatenates parts.
func Cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// Box lays out a basic box with a 32-bit size.
func Box(typ string, payload ...[]byte) []byte {
	body := Cat(payload...)
	return write(func(sw *binary.SafeWriter) error {
		if err := binary.Write(sw, uint32(8+len(body))); err != nil {
			return err
		}
		if err := sw.WriteString(wireType(typ)); err != nil {
			return err
		}
		return sw.WriteBytes(body)
	})
}

// wireType maps the printable "©" to the single 0xa9 byte iTunes item
// types carry on disk.
func wireType(typ string) string {
	return strings.Replace(typ, "©", "\xa9", 1)
}

// FullBox lays out a box with version and flags.
func FullBox(typ string, version uint8, flags uint32, payload ...[]byte) []byte {
	return Box(typ, Cat(U8(version), U24(flags)), Cat(payload...))
}

// LargeBox lays out a box using the size == 1 form with a 64-bit largesize.
func LargeBox(typ string, payload ...[]byte) []byte {
	body := Cat(payload...)
	return Cat(U32(1), Str(typ), U64(uint64(16+len(body))), body)
}

// UUIDBox lays out a uuid box carrying version and flags.
func UUIDBox(id uuid.UUID, version uint8, flags uint32, payload ...[]byte) []byte {
	return Box("uuid", id[:], U8(version), U24(flags), Cat(payload...))
}

// Header lays out only a box header declaring size, for crafting
// inconsistent inputs.
func Header(size uint32, typ string) []byte {
	return Cat(U32(size), Str(typ))
}

// Bits packs values MSB first using the matching bit widths.
func Bits(widths []uint8, values []uint64) []byte {
	buf := &bytes.Buffer{}
	w := bitio.NewWriter(buf)
	for i, n := range widths {
		w.TryWriteBits(values[i], n)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	if w.TryError != nil {
		panic(w.TryError)
	}
	return buf.Bytes()
}

// Language packs a three-letter ISO-639-2/T code the way mdhd stores it.
func Language(code string) uint16 {
	b := Bits([]uint8{1, 5, 5, 5}, []uint64{0, uint64(code[0] - 0x60), uint64(code[1] - 0x60), uint64(code[2] - 0x60)})
	return uint16(b[0])<<8 | uint16(b[1])
}

// Ftyp lays out a file-type box.
func Ftyp(major string, minor uint32, compatible ...string) []byte {
	parts := [][]byte{Str(major), U32(minor)}
	for _, c := range compatible {
		parts = append(parts, Str(c))
	}
	return Box("ftyp", parts...)
}

// times lays out creation time, modification time, timescale and
// duration in the width the version selects.
func times(version uint8, timescale uint32, duration uint64) []byte {
	if version == 1 {
		return Cat(U64(0), U64(0), U32(timescale), U64(duration))
	}
	return Cat(U32(0), U32(0), U32(timescale), U32(uint32(duration)))
}

// Mvhd lays out a movie header with unit rate and volume.
func Mvhd(version uint8, timescale uint32, duration uint64) []byte {
	return FullBox("mvhd", version, 0,
		times(version, timescale, duration),
		U32(0x00010000), U16(0x0100), U16(0), Zeros(8),
		Zeros(36), Zeros(24), U32(2),
	)
}

// Tkhd lays out a version 0 track header. width and height are whole pixels.
func Tkhd(trackID uint32, duration uint32, width, height uint16) []byte {
	return FullBox("tkhd", 0, 0x000003,
		U32(0), U32(0), U32(trackID), U32(0), U32(duration),
		Zeros(8), U16(0), U16(0), U16(0), U16(0), Zeros(36),
		U32(uint32(width)<<16), U32(uint32(height)<<16),
	)
}

// Mdhd lays out a media header.
func Mdhd(version uint8, timescale uint32, duration uint64, language string) []byte {
	return FullBox("mdhd", version, 0, times(version, timescale, duration), U16(Language(language)), U16(0))
}

// Hdlr lays out a handler reference with a NUL terminated name.
func Hdlr(handler, name string) []byte {
	return FullBox("hdlr", 0, 0, U32(0), Str(handler), Zeros(12), Str(name), U8(0))
}

// AudioEntry lays out an audio sample entry with the given children.
func AudioEntry(typ string, channels uint16, rate uint32, children ...[]byte) []byte {
	return Box(typ,
		Zeros(6), U16(1),
		Zeros(8), U16(channels), U16(16), U16(0), U16(0), U32(rate<<16),
		Cat(children...),
	)
}

// VisualEntry lays out a visual sample entry with the given children.
func VisualEntry(typ string, width, height uint16, compressor string, children ...[]byte) []byte {
	name := Zeros(32)
	name[0] = byte(len(compressor))
	copy(name[1:], compressor)
	return Box(typ,
		Zeros(6), U16(1),
		U16(0), U16(0), Zeros(12), U16(width), U16(height),
		U32(0x00480000), U32(0x00480000), U32(0), U16(1),
		name, U16(0x0018), U16(0xFFFF),
		Cat(children...),
	)
}

// Stsz lays out a sample size box listing every size.
func Stsz(sizes ...uint32) []byte {
	parts := [][]byte{U32(0), U32(uint32(len(sizes)))}
	for _, s := range sizes {
		parts = append(parts, U32(s))
	}
	return FullBox("stsz", 0, 0, parts...)
}
