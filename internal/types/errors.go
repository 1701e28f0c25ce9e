package types

import "fmt"

// OutOfRangeError is returned when a read would run past the end of the
// source, or past the end of the box currently being decoded.
type OutOfRangeError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64

	// Limit is set when the bound that was hit is a box end rather than
	// the end of the source.
	Limit bool
}

func (e *OutOfRangeError) Error() string {
	bound := "source size"
	if e.Limit {
		bound = "box end"
	}
	if e.Offset >= e.Size {
		return fmt.Sprintf("%soffset %d out of range (%s: %d) while reading %s",
			prefix(e.Path), e.Offset, bound, e.Size, e.What)
	}
	return fmt.Sprintf("%sread of %d bytes at offset %d would exceed %s %d while reading %s",
		prefix(e.Path), e.Length, e.Offset, bound, e.Size, e.What)
}

// MalformedBoxError is returned when a box's declared size is inconsistent
// with its header or with the range of its parent.
type MalformedBoxError struct {
	Path   string
	Type   string
	Reason string
	Offset int64
}

func (e *MalformedBoxError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%smalformed box at offset %d: %s", prefix(e.Path), e.Offset, e.Reason)
	}
	return fmt.Sprintf("%smalformed %q box at offset %d: %s", prefix(e.Path), e.Type, e.Offset, e.Reason)
}

// LimitError is returned when a walk exceeds a configured resource bound.
type LimitError struct {
	Limit  string // "depth" or "boxes"
	Max    int
	Offset int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("box %s limit %d exceeded at offset %d", e.Limit, e.Max, e.Offset)
}

// UnsupportedFormatError is returned when the input has no readable box structure.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%sunsupported format: %s", prefix(e.Path), e.Reason)
}

// prefix is "path: ", or nothing for sources without a name.
func prefix(path string) string {
	if path == "" {
		return ""
	}
	return path + ": "
}

// Warning is a per-box error record collected by a lenient walk.
//
// A warning does not stop the walk. The box it refers to (if any) is
// still present in the tree with its header populated.
type Warning struct {
	// Stage where the problem occurred
	Stage string // "header", "fields", "layout", "limits"

	// Type is the four-character code of the box, when known.
	Type string

	Message string

	// Offset of the box header in the source.
	Offset int64

	// Err is the underlying typed error.
	Err error
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Type != "" {
		return fmt.Sprintf("%s %q (at offset %d): %s", w.Stage, w.Type, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
}

// Error makes a Warning usable wherever an error is expected.
func (w Warning) Error() string {
	return w.String()
}

// Unwrap exposes the typed error for errors.As.
func (w Warning) Unwrap() error {
	return w.Err
}
