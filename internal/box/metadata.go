package box

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
)

// TrackReferenceType is the payload of the typed boxes inside tref
// (chap, hint, sync, cdsc, ...). The box type names the relation.
type TrackReferenceType struct {
	TrackIDs []uint32 `json:"track_ids"`
}

// Well-known track reference types.
var (
	ReferenceChapter     = MustFourCC("chap")
	ReferenceHint        = MustFourCC("hint")
	ReferenceDescription = MustFourCC("cdsc")
)

// Well-known data types of an iTunes metadata value, carried in the
// flags of the data box.
const (
	DataTypeImplicit  = 0
	DataTypeUTF8      = 1
	DataTypeUTF16     = 2
	DataTypeJPEG      = 13
	DataTypePNG       = 14
	DataTypeSignedInt = 21
	DataTypeBMP       = 27
)

// ItemData is the payload of the data box inside an ilst item.
type ItemData struct {
	DataType uint32 `json:"data_type"`
	Locale   uint32 `json:"locale"`
	Value    []byte `json:"value"`
}

// Text returns the value as a string for the text data types, trimmed of
// trailing NULs and surrounding space.
func (d *ItemData) Text() string {
	var s string
	switch d.DataType {
	case DataTypeUTF16:
		u := make([]uint16, len(d.Value)/2)
		for i := range u {
			u[i] = binary.BigEndian.Uint16(d.Value[2*i:])
		}
		s = string(utf16.Decode(u))
	default:
		s = string(d.Value)
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// Int returns the value of a big-endian signed integer item. Values of 1,
// 2, 3, 4 or 8 bytes are accepted; anything else reports false.
func (d *ItemData) Int() (int64, bool) {
	switch len(d.Value) {
	case 1:
		return int64(int8(d.Value[0])), true
	case 2:
		return int64(int16(binary.BigEndian.Uint16(d.Value))), true
	case 3:
		v := int32(d.Value[0])<<16 | int32(d.Value[1])<<8 | int32(d.Value[2])
		return int64(v<<8) >> 8, true
	case 4:
		return int64(int32(binary.BigEndian.Uint32(d.Value))), true
	case 8:
		return int64(binary.BigEndian.Uint64(d.Value)), true
	}
	return 0, false
}

// Pair decodes the index/total layout shared by trkn and disk: two
// reserved bytes, the index, then the total.
func (d *ItemData) Pair() (index, total int, ok bool) {
	if len(d.Value) < 6 {
		return 0, 0, false
	}
	return int(binary.BigEndian.Uint16(d.Value[2:])), int(binary.BigEndian.Uint16(d.Value[4:])), true
}

// ChapterList is the payload of a Nero chpl box.
type ChapterList struct {
	Reserved uint32             `json:"reserved"`
	Count    uint8              `json:"count"`
	Chapters []ChapterListEntry `json:"chapters"`
}

// ChapterListEntry is one chpl chapter. Start is in 100 ns units.
type ChapterListEntry struct {
	Start uint64 `json:"start"`
	Title string `json:"title"`
}
