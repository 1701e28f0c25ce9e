package decode

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/registry"
)

func init() {
	container("stbl", box.KindSampleTable)
	register("stts", registry.Entry{Kind: box.KindTimeToSample, Full: true, Decode: decodeTimeToSample})
	register("ctts", registry.Entry{Kind: box.KindCompositionOffset, Full: true, Decode: decodeCompositionOffset})
	register("stss", registry.Entry{Kind: box.KindSyncSample, Full: true, Decode: decodeSyncSample})
	register("stsh", registry.Entry{Kind: box.KindShadowSyncSample, Full: true, Decode: decodeShadowSyncSample})
	register("stsc", registry.Entry{Kind: box.KindSampleToChunk, Full: true, Decode: decodeSampleToChunk})
	register("stco", registry.Entry{Kind: box.KindChunkOffset, Full: true, Decode: decodeChunkOffset})
	register("co64", registry.Entry{Kind: box.KindChunkLargeOffset, Full: true, Decode: decodeChunkLargeOffset})
	register("stsz", registry.Entry{Kind: box.KindSampleSize, Full: true, Decode: decodeSampleSize})
	register("stz2", registry.Entry{Kind: box.KindCompactSampleSize, Full: true, Decode: decodeCompactSampleSize})
	register("stsd", registry.Entry{Kind: box.KindSampleDescription, Full: true, Container: true, Decode: decodeSampleDescription})
}

func decodeTimeToSample(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.TimeToSample{EntryCount: binary.ReadChained[uint32](r, "entry count")}
	p.Entries = make([]box.TimeToSampleEntry, 0, capacity(r, p.EntryCount, 8))
	for i := uint32(0); i < p.EntryCount && r.Error() == nil; i++ {
		p.Entries = append(p.Entries, box.TimeToSampleEntry{
			SampleCount: binary.ReadChained[uint32](r, "sample count"),
			SampleDelta: binary.ReadChained[uint32](r, "sample delta"),
		})
	}
	return finish(r, p)
}

func decodeCompositionOffset(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.CompositionOffset{EntryCount: binary.ReadChained[uint32](r, "entry count")}
	p.Entries = make([]box.CompositionOffsetEntry, 0, capacity(r, p.EntryCount, 8))
	for i := uint32(0); i < p.EntryCount && r.Error() == nil; i++ {
		e := box.CompositionOffsetEntry{SampleCount: binary.ReadChained[uint32](r, "sample count")}
		raw := binary.ReadChained[uint32](r, "sample offset")
		if h.Version == 1 {
			e.SampleOffset = int64(int32(raw))
		} else {
			e.SampleOffset = int64(raw)
		}
		p.Entries = append(p.Entries, e)
	}
	return finish(r, p)
}

func decodeSyncSample(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.SyncSample{EntryCount: binary.ReadChained[uint32](r, "entry count")}
	p.SampleNumbers = make([]uint32, 0, capacity(r, p.EntryCount, 4))
	for i := uint32(0); i < p.EntryCount && r.Error() == nil; i++ {
		p.SampleNumbers = append(p.SampleNumbers, binary.ReadChained[uint32](r, "sample number"))
	}
	return finish(r, p)
}

func decodeShadowSyncSample(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.ShadowSyncSample{EntryCount: binary.ReadChained[uint32](r, "entry count")}
	p.Entries = make([]box.ShadowSyncSampleEntry, 0, capacity(r, p.EntryCount, 8))
	for i := uint32(0); i < p.EntryCount && r.Error() == nil; i++ {
		p.Entries = append(p.Entries, box.ShadowSyncSampleEntry{
			ShadowedSampleNumber: binary.ReadChained[uint32](r, "shadowed sample number"),
			SyncSampleNumber:     binary.ReadChained[uint32](r, "sync sample number"),
		})
	}
	return finish(r, p)
}

func decodeSampleToChunk(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.SampleToChunk{EntryCount: binary.ReadChained[uint32](r, "entry count")}
	p.Entries = make([]box.SampleToChunkEntry, 0, capacity(r, p.EntryCount, 12))
	for i := uint32(0); i < p.EntryCount && r.Error() == nil; i++ {
		p.Entries = append(p.Entries, box.SampleToChunkEntry{
			FirstChunk:             binary.ReadChained[uint32](r, "first chunk"),
			SamplesPerChunk:        binary.ReadChained[uint32](r, "samples per chunk"),
			SampleDescriptionIndex: binary.ReadChained[uint32](r, "sample description index"),
		})
	}
	return finish(r, p)
}

func decodeChunkOffset(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.ChunkOffset{EntryCount: binary.ReadChained[uint32](r, "entry count")}
	p.Offsets = make([]uint64, 0, capacity(r, p.EntryCount, 4))
	for i := uint32(0); i < p.EntryCount && r.Error() == nil; i++ {
		p.Offsets = append(p.Offsets, uint64(binary.ReadChained[uint32](r, "chunk offset")))
	}
	return finish(r, p)
}

func decodeChunkLargeOffset(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.ChunkOffset{EntryCount: binary.ReadChained[uint32](r, "entry count")}
	p.Offsets = make([]uint64, 0, capacity(r, p.EntryCount, 8))
	for i := uint32(0); i < p.EntryCount && r.Error() == nil; i++ {
		p.Offsets = append(p.Offsets, binary.ReadChained[uint64](r, "chunk offset"))
	}
	return finish(r, p)
}

func decodeSampleSize(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.SampleSize{
		SampleSize:  binary.ReadChained[uint32](r, "sample size"),
		SampleCount: binary.ReadChained[uint32](r, "sample count"),
	}
	if p.SampleSize == 0 {
		p.EntrySizes = make([]uint32, 0, capacity(r, p.SampleCount, 4))
		for i := uint32(0); i < p.SampleCount && r.Error() == nil; i++ {
			p.EntrySizes = append(p.EntrySizes, binary.ReadChained[uint32](r, "entry size"))
		}
	}
	return finish(r, p)
}

func decodeCompactSampleSize(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.CompactSampleSize{
		Reserved:    r.Uint24("reserved"),
		FieldSize:   binary.ReadChained[uint8](r, "field size"),
		SampleCount: binary.ReadChained[uint32](r, "sample count"),
	}
	if r.Error() != nil {
		return finish(r, p)
	}

	switch p.FieldSize {
	case 4:
		packed := r.Bytes(int((uint64(p.SampleCount)+1)/2), "entry sizes")
		if r.Error() != nil {
			break
		}
		br := bitio.NewReader(bytes.NewReader(packed))
		p.EntrySizes = make([]uint16, p.SampleCount)
		for i := range p.EntrySizes {
			p.EntrySizes[i] = uint16(br.TryReadBits(4))
		}
		if br.TryError != nil {
			r.Fail(br.TryError)
		}
	case 8:
		p.EntrySizes = make([]uint16, 0, capacity(r, p.SampleCount, 1))
		for i := uint32(0); i < p.SampleCount && r.Error() == nil; i++ {
			p.EntrySizes = append(p.EntrySizes, uint16(binary.ReadChained[uint8](r, "entry size")))
		}
	case 16:
		p.EntrySizes = make([]uint16, 0, capacity(r, p.SampleCount, 2))
		for i := uint32(0); i < p.SampleCount && r.Error() == nil; i++ {
			p.EntrySizes = append(p.EntrySizes, binary.ReadChained[uint16](r, "entry size"))
		}
	default:
		r.Fail(malformed(r, h, fmt.Sprintf("invalid stz2 field size %d", p.FieldSize)))
	}
	return finish(r, p)
}

func decodeSampleDescription(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.SampleDescription{EntryCount: binary.ReadChained[uint32](r, "entry count")}
	return finish(r, p)
}
