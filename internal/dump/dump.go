// Package dump renders decoded box trees for people and for tools.
//
// Text output prints one line per box, indented by depth, optionally
// followed by the decoded fields. JSON output serialises the tree through
// the json tags of the box model.
package dump

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"

	"github.com/simonhull/isobmff/internal/box"
)

// DefaultMaxEntries is the number of table entries printed per field when
// Options.MaxEntries is zero.
const DefaultMaxEntries = 8

// Options controls rendering.
type Options struct {
	// JSON selects JSON output instead of text.
	JSON bool

	// Fields prints the decoded payload fields on the box line.
	Fields bool

	// Verbose prints every payload in full below its box line instead of
	// on it. MaxEntries does not apply.
	Verbose bool

	// MaxEntries bounds the entries printed for slice fields. Zero means
	// DefaultMaxEntries; a negative value prints everything.
	MaxEntries int

	// MaxDepth stops the output below the given nesting level. Zero means
	// unlimited.
	MaxDepth int
}

func (o Options) maxEntries() int {
	switch {
	case o.MaxEntries == 0:
		return DefaultMaxEntries
	case o.MaxEntries < 0:
		return -1
	default:
		return o.MaxEntries
	}
}

// Write renders boxes in the format selected by opts.
func Write(w io.Writer, boxes []*box.Box, opts Options) error {
	if opts.JSON {
		return JSON(w, boxes, opts)
	}
	return Text(w, boxes, opts)
}

// printer remembers the first write error so rendering code can print
// unconditionally and check once at the end.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Text writes one line per box:
//
//	moov @40 1.2 KiB movie [4]
//	  mvhd v0 @48 108 B movie header
func Text(w io.Writer, boxes []*box.Box, opts Options) error {
	p := &printer{w: w}
	spewer := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}

	box.Walk(boxes, func(b *box.Box, depth int) bool {
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return false
		}
		indent := strings.Repeat("  ", depth)
		p.printf("%s%s\n", indent, line(b, opts))

		if opts.Verbose && b.Payload != nil {
			for _, l := range strings.Split(strings.TrimRight(spewer.Sdump(b.Payload), "\n"), "\n") {
				p.printf("%s    %s\n", indent, l)
			}
		}
		return p.err == nil
	})
	return p.err
}

// line formats the summary line of a single box.
func line(b *box.Box, opts Options) string {
	var sb strings.Builder
	sb.WriteString(b.Type.String())
	if b.Type == box.TypeUUID {
		if b.Extension != "" {
			fmt.Fprintf(&sb, "[%s]", b.Extension)
		} else {
			fmt.Fprintf(&sb, "[%s]", b.UUID)
		}
	}
	if b.Full {
		fmt.Fprintf(&sb, " v%d", b.Version)
		if b.Flags != 0 {
			fmt.Fprintf(&sb, " flags=0x%06x", b.Flags)
		}
	}

	fmt.Fprintf(&sb, " @%s %s %s", humanize.Comma(int64(b.Offset)), humanize.IBytes(b.EffectiveSize()), b.Kind)
	if len(b.Children) > 0 {
		fmt.Fprintf(&sb, " [%d]", len(b.Children))
	}

	if opts.Fields && !opts.Verbose {
		if f := fields(b.Payload, opts.maxEntries()); f != "" {
			sb.WriteString("  ")
			sb.WriteString(f)
		}
	}
	return sb.String()
}

// JSON writes the tree as an indented JSON document of the form
// {"boxes": [...]}.
func JSON(w io.Writer, boxes []*box.Box, opts Options) error {
	if opts.MaxDepth > 0 {
		boxes = prune(boxes, opts.MaxDepth)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Boxes []*box.Box `json:"boxes"`
	}{boxes})
}

// prune returns shallow copies of boxes with everything below depth
// levels removed. The input tree is not modified.
func prune(boxes []*box.Box, depth int) []*box.Box {
	if depth <= 0 || len(boxes) == 0 {
		return nil
	}
	out := make([]*box.Box, len(boxes))
	for i, b := range boxes {
		c := *b
		c.Children = prune(b.Children, depth-1)
		out[i] = &c
	}
	return out
}
