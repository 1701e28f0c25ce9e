package types

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Artwork is an image stored in a covr item.
type Artwork struct {
	MIMEType string // "image/jpeg", "image/png", "image/bmp"
	Data     []byte

	// Offset of the image bytes in the source.
	Offset int64
}

// String returns a short description of the artwork.
//
// Example output: "JPEG, 245 KiB"
func (a Artwork) String() string {
	return fmt.Sprintf("%s, %s", mimeToFormat(a.MIMEType), humanize.IBytes(uint64(len(a.Data))))
}

// Extension returns the usual file extension for the image.
func (a Artwork) Extension() string {
	switch a.MIMEType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/bmp":
		return ".bmp"
	default:
		return ".bin"
	}
}

func mimeToFormat(mime string) string {
	switch mime {
	case "image/jpeg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/bmp":
		return "BMP"
	default:
		return "Image"
	}
}

// SniffImage returns the MIME type of image data from its magic bytes, or
// "" when it is not a recognised image.
func SniffImage(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xff && data[1] == 0xd8 && data[2] == 0xff:
		return "image/jpeg"
	case len(data) >= 8 && string(data[:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	case len(data) >= 2 && string(data[:2]) == "BM":
		return "image/bmp"
	}
	return ""
}
