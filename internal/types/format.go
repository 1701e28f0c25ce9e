package types

import (
	"encoding/binary"
	"errors"
	"io"
)

// Format represents the container flavour announced by the file-type box.
type Format int

const (
	// FormatUnknown represents a file without a recognised brand.
	FormatUnknown Format = iota
	// FormatMP4 represents generic ISO base media / MP4 files.
	FormatMP4
	// FormatM4A represents iTunes audio files.
	FormatM4A
	// FormatM4B represents iTunes audiobook files.
	FormatM4B
	// FormatM4V represents iTunes video files.
	FormatM4V
	// FormatQuickTime represents QuickTime movies.
	FormatQuickTime
	// Format3GP represents 3GPP and 3GPP2 files.
	Format3GP
	// FormatCMAF represents CMAF / DASH fragmented media.
	FormatCMAF
	// FormatHEIF represents HEIF and AVIF still images.
	FormatHEIF
)

var formatNames = [...]string{
	FormatUnknown:   "Unknown",
	FormatMP4:       "MP4",
	FormatM4A:       "M4A",
	FormatM4B:       "M4B",
	FormatM4V:       "M4V",
	FormatQuickTime: "QuickTime",
	Format3GP:       "3GP",
	FormatCMAF:      "CMAF",
	FormatHEIF:      "HEIF",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "Unknown"
	}
	return formatNames[f]
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMP4:
		return []string{".mp4", ".mp4v", ".mpg4"}
	case FormatM4A:
		return []string{".m4a", ".m4p"}
	case FormatM4B:
		return []string{".m4b"}
	case FormatM4V:
		return []string{".m4v"}
	case FormatQuickTime:
		return []string{".mov", ".qt"}
	case Format3GP:
		return []string{".3gp", ".3g2"}
	case FormatCMAF:
		return []string{".cmfv", ".cmfa", ".m4s"}
	case FormatHEIF:
		return []string{".heic", ".heif", ".avif"}
	case FormatUnknown:
		return nil
	default:
		return nil
	}
}

// brandFormats maps ftyp brands to formats. Brands not listed here fall
// through to the compatible brand list.
var brandFormats = map[string]Format{
	"M4A ": FormatM4A,
	"M4P ": FormatM4A,
	"M4B ": FormatM4B,
	"M4V ": FormatM4V,
	"M4VH": FormatM4V,
	"M4VP": FormatM4V,
	"qt  ": FormatQuickTime,
	"3gp4": Format3GP,
	"3gp5": Format3GP,
	"3gp6": Format3GP,
	"3gg6": Format3GP,
	"3g2a": Format3GP,
	"cmfc": FormatCMAF,
	"cmf2": FormatCMAF,
	"dash": FormatCMAF,
	"msdh": FormatCMAF,
	"heic": FormatHEIF,
	"heix": FormatHEIF,
	"mif1": FormatHEIF,
	"msf1": FormatHEIF,
	"avif": FormatHEIF,
	"isom": FormatMP4,
	"iso2": FormatMP4,
	"iso4": FormatMP4,
	"iso5": FormatMP4,
	"iso6": FormatMP4,
	"mp41": FormatMP4,
	"mp42": FormatMP4,
	"avc1": FormatMP4,
	"f4v ": FormatMP4,
}

// FormatFromBrands determines the format from a file-type box's major
// brand, consulting the compatible brands only when the major brand is
// not recognised.
func FormatFromBrands(major string, compatible []string) Format {
	if f, ok := brandFormats[major]; ok {
		return f
	}
	for _, b := range compatible {
		if f, ok := brandFormats[b]; ok {
			return f
		}
	}
	return FormatUnknown
}

// topLevelTypes are box types that may legitimately start a file that has
// no ftyp: old QuickTime movies and bare media segments.
var topLevelTypes = map[string]Format{
	"moov": FormatQuickTime,
	"mdat": FormatQuickTime,
	"free": FormatQuickTime,
	"skip": FormatQuickTime,
	"wide": FormatQuickTime,
	"pdin": FormatQuickTime,
	"styp": FormatCMAF,
	"sidx": FormatCMAF,
	"moof": FormatCMAF,
}

// DetectFormat examines the first box header to decide whether the input
// is an ISO base media file at all, and if it starts with ftyp, which
// flavour it is.
//
// A file without ftyp but with a plausible top-level box is reported as
// FormatQuickTime, or FormatCMAF when it starts with a segment box.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 8 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	var header [8]byte
	if _, err := r.ReadAt(header[:], 0); err != nil && !errors.Is(err, io.EOF) {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "failed to read box header"}
	}
	boxSize := binary.BigEndian.Uint32(header[:4])
	typ := header[4:]

	if string(typ) != "ftyp" {
		if f, ok := topLevelTypes[string(typ)]; ok {
			return f, nil
		}
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "no ftyp or known top-level box at start of file",
		}
	}

	// size + type + major brand + minor version
	if boxSize < 16 || int64(boxSize) > size {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "ftyp box size out of range",
		}
	}

	brands := make([]byte, boxSize-8)
	if _, err := r.ReadAt(brands, 8); err != nil && !errors.Is(err, io.EOF) {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "failed to read ftyp brands"}
	}

	var compatible []string
	for i := 8; i+4 <= len(brands); i += 4 {
		compatible = append(compatible, string(brands[i:i+4]))
	}
	return FormatFromBrands(string(brands[:4]), compatible), nil
}
