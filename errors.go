package isobmff

import "github.com/simonhull/isobmff/internal/types"

// OutOfRangeError reports a read past the end of the source or of the
// box being decoded.
type OutOfRangeError = types.OutOfRangeError

// MalformedBoxError reports a box whose size does not fit its header or
// its parent.
type MalformedBoxError = types.MalformedBoxError

// LimitError reports an exceeded depth or box count limit.
type LimitError = types.LimitError

// UnsupportedFormatError reports an input with no box structure.
type UnsupportedFormatError = types.UnsupportedFormatError

// Warning is a non-fatal problem recorded by a lenient parse.
type Warning = types.Warning
