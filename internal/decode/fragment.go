package decode

import (
	"bytes"

	"github.com/icza/bitio"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/registry"
)

func init() {
	container("mvex", box.KindMovieExtends)
	register("mehd", registry.Entry{Kind: box.KindMovieExtendsHeader, Full: true, Decode: decodeMovieExtendsHeader})
	register("trex", registry.Entry{Kind: box.KindTrackExtends, Full: true, Decode: decodeTrackExtends})
	container("moof", box.KindMovieFragment)
	register("mfhd", registry.Entry{Kind: box.KindMovieFragmentHeader, Full: true, Decode: decodeMovieFragmentHeader})
	container("traf", box.KindTrackFragment)
	register("tfhd", registry.Entry{Kind: box.KindTrackFragmentHeader, Full: true, Decode: decodeTrackFragmentHeader})
	register("tfdt", registry.Entry{Kind: box.KindTrackFragmentDecodeTime, Full: true, Decode: decodeTrackFragmentDecodeTime})
	register("trun", registry.Entry{Kind: box.KindTrackRun, Full: true, Decode: decodeTrackRun})
	container("mfra", box.KindMovieFragmentRandomAccess)
	register("tfra", registry.Entry{Kind: box.KindTrackFragmentRandomAccess, Full: true, Decode: decodeTrackFragmentRandomAccess})
	register("mfro", registry.Entry{Kind: box.KindMovieFragmentRandomAccessOffset, Full: true, Decode: decodeMovieFragmentRandomAccessOffset})
}

func decodeMovieExtendsHeader(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.MovieExtendsHeader{FragmentDuration: versioned(r, h, "fragment duration")}
	return finish(r, p)
}

func decodeTrackExtends(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.TrackExtends{
		TrackID:                       binary.ReadChained[uint32](r, "track id"),
		DefaultSampleDescriptionIndex: binary.ReadChained[uint32](r, "default sample description index"),
		DefaultSampleDuration:         binary.ReadChained[uint32](r, "default sample duration"),
		DefaultSampleSize:             binary.ReadChained[uint32](r, "default sample size"),
		DefaultSampleFlags:            binary.ReadChained[uint32](r, "default sample flags"),
	}
	return finish(r, p)
}

func decodeMovieFragmentHeader(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.MovieFragmentHeader{SequenceNumber: binary.ReadChained[uint32](r, "sequence number")}
	return finish(r, p)
}

func decodeTrackFragmentHeader(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.TrackFragmentHeader{TrackID: binary.ReadChained[uint32](r, "track id")}
	if h.HasFlag(box.TfhdBaseDataOffset) {
		p.BaseDataOffset = binary.ReadChained[uint64](r, "base data offset")
	}
	if h.HasFlag(box.TfhdSampleDescriptionIndex) {
		p.SampleDescriptionIndex = binary.ReadChained[uint32](r, "sample description index")
	}
	if h.HasFlag(box.TfhdDefaultSampleDuration) {
		p.DefaultSampleDuration = binary.ReadChained[uint32](r, "default sample duration")
	}
	if h.HasFlag(box.TfhdDefaultSampleSize) {
		p.DefaultSampleSize = binary.ReadChained[uint32](r, "default sample size")
	}
	if h.HasFlag(box.TfhdDefaultSampleFlags) {
		p.DefaultSampleFlags = binary.ReadChained[uint32](r, "default sample flags")
	}
	return finish(r, p)
}

func decodeTrackFragmentDecodeTime(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.TrackFragmentDecodeTime{BaseMediaDecodeTime: versioned(r, h, "base media decode time")}
	return finish(r, p)
}

var trunSampleFields = []uint32{
	box.TrunSampleDuration,
	box.TrunSampleSize,
	box.TrunSampleFlags,
	box.TrunSampleCompositionTimeOffset,
}

func decodeTrackRun(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.TrackRun{SampleCount: binary.ReadChained[uint32](r, "sample count")}
	if h.HasFlag(box.TrunDataOffset) {
		p.DataOffset = binary.ReadChained[uint32](r, "data offset")
	}
	if h.HasFlag(box.TrunFirstSampleFlags) {
		p.FirstSampleFlags = binary.ReadChained[uint32](r, "first sample flags")
	}

	record := 0
	for _, f := range trunSampleFields {
		if h.HasFlag(f) {
			record += 4
		}
	}
	// Without per-sample fields every sample takes the fragment defaults
	// and there is nothing to record.
	if record == 0 {
		return finish(r, p)
	}

	p.Samples = make([]box.TrackRunSample, 0, capacity(r, p.SampleCount, record))
	for i := uint32(0); i < p.SampleCount && r.Error() == nil; i++ {
		var s box.TrackRunSample
		if h.HasFlag(box.TrunSampleDuration) {
			s.Duration = binary.ReadChained[uint32](r, "sample duration")
		}
		if h.HasFlag(box.TrunSampleSize) {
			s.Size = binary.ReadChained[uint32](r, "sample size")
		}
		if h.HasFlag(box.TrunSampleFlags) {
			s.Flags = binary.ReadChained[uint32](r, "sample flags")
		}
		if h.HasFlag(box.TrunSampleCompositionTimeOffset) {
			s.CompositionTimeOffset = int32(binary.ReadChained[uint32](r, "sample composition time offset"))
		}
		p.Samples = append(p.Samples, s)
	}
	return finish(r, p)
}

func decodeTrackFragmentRandomAccess(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.TrackFragmentRandomAccess{TrackID: binary.ReadChained[uint32](r, "track id")}

	packed := r.Bytes(4, "length sizes")
	if r.Error() == nil {
		br := bitio.NewReader(bytes.NewReader(packed))
		p.Reserved = uint32(br.TryReadBits(26))
		p.LengthSizeOfTrafNum = uint8(br.TryReadBits(2))
		p.LengthSizeOfTrunNum = uint8(br.TryReadBits(2))
		p.LengthSizeOfSampleNum = uint8(br.TryReadBits(2))
		if br.TryError != nil {
			r.Fail(br.TryError)
		}
	}
	p.NumberOfEntry = binary.ReadChained[uint32](r, "number of entry")

	traf := int(p.LengthSizeOfTrafNum) + 1
	trun := int(p.LengthSizeOfTrunNum) + 1
	sample := int(p.LengthSizeOfSampleNum) + 1
	record := 8 + traf + trun + sample
	if h.Version == 1 {
		record += 8
	}

	p.Entries = make([]box.TrackFragmentRandomAccessEntry, 0, capacity(r, p.NumberOfEntry, record))
	for i := uint32(0); i < p.NumberOfEntry && r.Error() == nil; i++ {
		p.Entries = append(p.Entries, box.TrackFragmentRandomAccessEntry{
			Time:         versioned(r, h, "time"),
			MoofOffset:   versioned(r, h, "moof offset"),
			TrafNumber:   r.Bytes(traf, "traf number"),
			TrunNumber:   r.Bytes(trun, "trun number"),
			SampleNumber: r.Bytes(sample, "sample number"),
		})
	}
	return finish(r, p)
}

func decodeMovieFragmentRandomAccessOffset(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.MovieFragmentRandomAccessOffset{Size: binary.ReadChained[uint32](r, "size")}
	return finish(r, p)
}
