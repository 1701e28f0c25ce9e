package isobmff

import (
	"io"

	"github.com/simonhull/isobmff/internal/types"
)

// Format is the container flavour announced by the file-type box.
type Format = types.Format

// Formats.
const (
	FormatUnknown   = types.FormatUnknown
	FormatMP4       = types.FormatMP4
	FormatM4A       = types.FormatM4A
	FormatM4B       = types.FormatM4B
	FormatM4V       = types.FormatM4V
	FormatQuickTime = types.FormatQuickTime
	Format3GP       = types.Format3GP
	FormatCMAF      = types.FormatCMAF
	FormatHEIF      = types.FormatHEIF
)

// DetectFormat inspects the first box of r and reports the format it
// announces. It fails with *UnsupportedFormatError when r does not start
// with a box that can begin an ISO base media file.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}
