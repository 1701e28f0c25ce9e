// Package decode holds one decode function per box payload kind and
// registers them with the registry.
//
// Every decoder is a straight-line sequence of reads over a chained reader
// bounded at the end of its box. A failed read poisons the reader; the
// decoder then returns the zero payload together with the error so the
// walker can keep the box in the tree with empty fields.
package decode

import (
	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/registry"
	"github.com/simonhull/isobmff/internal/types"
)

// finish returns p, or a zero P when any read on r failed.
func finish[P any](r *binary.ChainReader, p *P) (any, error) {
	if err := r.Error(); err != nil {
		return new(P), err
	}
	return p, nil
}

// versioned reads a 64-bit field for version 1 boxes and a 32-bit field,
// widened, for any other version.
func versioned(r *binary.ChainReader, h *box.Header, what string) uint64 {
	if h.Version == 1 {
		return binary.ReadChained[uint64](r, what)
	}
	return uint64(binary.ReadChained[uint32](r, what))
}

func fourCC(r *binary.ChainReader, what string) box.FourCC {
	return box.FourCC(binary.ReadChained[uint32](r, what))
}

// capacity bounds a slice capacity hint by what the rest of the box could
// actually hold, so a corrupt count cannot force a huge allocation.
func capacity(r *binary.ChainReader, count uint32, recordSize int) int {
	if recordSize <= 0 {
		return 0
	}
	most := r.Remaining() / int64(recordSize)
	if int64(count) < most {
		return int(count)
	}
	return int(most)
}

func malformed(r *binary.ChainReader, h *box.Header, reason string) error {
	return &types.MalformedBoxError{
		Path:   r.Path(),
		Type:   h.Type.String(),
		Offset: int64(h.Offset),
		Reason: reason,
	}
}

func register(code string, e registry.Entry) {
	registry.Register(box.MustFourCC(code), e)
}

func container(code string, kind box.Kind) {
	register(code, registry.Entry{Kind: kind, Container: true})
}
