package walker

import (
	"github.com/google/uuid"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/registry"
)

// readHeader reads the box header at offset without reading past end and
// resolves its registry entry. The returned box has no payload yet.
func readHeader(sr *binary.SafeReader, offset, end int64) (*box.Box, registry.Entry, error) {
	r := binary.NewBoundedReader(sr, offset, end)

	size, err := binary.ReadValue[uint32](r, "box size")
	if err != nil {
		return nil, registry.Entry{}, err
	}
	typ, err := binary.ReadValue[uint32](r, "box type")
	if err != nil {
		return nil, registry.Entry{}, err
	}

	h := box.Header{
		Size:   size,
		Type:   box.FourCC(typ),
		Offset: uint64(offset),
	}

	// size == 1 means a 64-bit size follows the type
	if size == 1 {
		if h.LargeSize, err = binary.ReadValue[uint64](r, "box largesize"); err != nil {
			return nil, registry.Entry{}, err
		}
	}

	entry := registry.Resolve(h.Type)
	if entry.Full {
		if h.Type == box.TypeUUID {
			b, err := r.ReadBytes(16, "extended type")
			if err != nil {
				return nil, registry.Entry{}, err
			}
			if h.UUID, err = uuid.FromBytes(b); err != nil {
				return nil, registry.Entry{}, err
			}
			h.Extension, _ = box.ExtensionName(h.UUID)
		}
		if h.Version, err = binary.ReadValue[uint8](r, "box version"); err != nil {
			return nil, registry.Entry{}, err
		}
		if h.Flags, err = r.ReadUint24("box flags"); err != nil {
			return nil, registry.Entry{}, err
		}
		h.Full = true
	}

	h.HeaderLen = uint64(r.Offset() - offset)

	return &box.Box{Header: h, Kind: entry.Kind, Container: entry.Container}, entry, nil
}
