// Package registry maps box type codes to the decoders that populate them.
package registry

import (
	"slices"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
)

// DecodeFunc reads a box's own fields. The reader is positioned just after
// the header and bounded at the box end. It returns the payload for the
// box (nil for kinds without fields) and any read error.
type DecodeFunc func(r *binary.ChainReader, h *box.Header) (any, error)

// Entry describes how to decode one box type.
type Entry struct {
	Kind box.Kind

	// Full boxes carry version and flags after the basic header.
	Full bool

	// Container boxes are recursed into after their own fields.
	Container bool

	// Decode may be nil for boxes that have no fields of their own.
	Decode DecodeFunc
}

// Unknown is the entry for every type code that has not been registered:
// no fields, no children, skipped by its declared size.
var Unknown = Entry{Kind: box.KindUnknown}

// entries maps box types to their entries.
var entries = make(map[box.FourCC]Entry)

// Register registers the entry for a box type.
// This is called by decoder packages during initialization (init functions).
func Register(t box.FourCC, e Entry) {
	entries[t] = e
}

// Lookup returns the entry registered for t.
func Lookup(t box.FourCC) (Entry, bool) {
	e, ok := entries[t]
	return e, ok
}

// Resolve returns the entry registered for t, or Unknown.
func Resolve(t box.FourCC) Entry {
	if e, ok := entries[t]; ok {
		return e
	}
	return Unknown
}

// Types returns every registered type code in ascending order.
func Types() []box.FourCC {
	out := make([]box.FourCC, 0, len(entries))
	for t := range entries {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
