package decode

import (
	"bytes"

	"github.com/icza/bitio"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/registry"
)

func init() {
	register("ftyp", registry.Entry{Kind: box.KindFileType, Decode: decodeFileType})
	register("styp", registry.Entry{Kind: box.KindFileType, Decode: decodeFileType})
	container("moov", box.KindMovie)
	register("mvhd", registry.Entry{Kind: box.KindMovieHeader, Full: true, Decode: decodeMovieHeader})
	container("trak", box.KindTrack)
	register("tkhd", registry.Entry{Kind: box.KindTrackHeader, Full: true, Decode: decodeTrackHeader})
	container("edts", box.KindEdit)
	register("elst", registry.Entry{Kind: box.KindEditList, Full: true, Decode: decodeEditList})
	container("mdia", box.KindMedia)
	register("mdhd", registry.Entry{Kind: box.KindMediaHeader, Full: true, Decode: decodeMediaHeader})
	register("hdlr", registry.Entry{Kind: box.KindHandler, Full: true, Decode: decodeHandler})
	container("minf", box.KindMediaInformation)
	register("vmhd", registry.Entry{Kind: box.KindVideoMediaHeader, Full: true, Decode: decodeVideoMediaHeader})
	register("smhd", registry.Entry{Kind: box.KindSoundMediaHeader, Full: true, Decode: decodeSoundMediaHeader})
	register("hmhd", registry.Entry{Kind: box.KindHintMediaHeader, Full: true, Decode: decodeHintMediaHeader})
	register("nmhd", registry.Entry{Kind: box.KindNullMediaHeader, Full: true})
	container("dinf", box.KindDataInformation)
	register("dref", registry.Entry{Kind: box.KindDataReference, Full: true, Container: true, Decode: decodeDataReference})
	register("url ", registry.Entry{Kind: box.KindDataEntryURL, Full: true, Decode: decodeDataEntryURL})
	container("udta", box.KindUserData)
	register("free", registry.Entry{Kind: box.KindFreeSpace})
	register("skip", registry.Entry{Kind: box.KindFreeSpace})
	register("mdat", registry.Entry{Kind: box.KindMediaData})
	register("uuid", registry.Entry{Kind: box.KindExtension, Full: true})
}

func decodeFileType(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.FileType{
		MajorBrand:   fourCC(r, "major brand"),
		MinorVersion: binary.ReadChained[uint32](r, "minor version"),
	}
	// No count field: brands run to the end of the box and a trailing
	// partial group is ignored.
	for r.Error() == nil && r.Remaining() >= 4 {
		p.CompatibleBrands = append(p.CompatibleBrands, fourCC(r, "compatible brand"))
	}
	return finish(r, p)
}

func decodeMovieHeader(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.MovieHeader{}
	p.CreationTime = versioned(r, h, "creation time")
	p.ModificationTime = versioned(r, h, "modification time")
	p.Timescale = binary.ReadChained[uint32](r, "timescale")
	p.Duration = versioned(r, h, "duration")
	p.Rate = binary.ReadChained[uint32](r, "rate")
	p.Volume = binary.ReadChained[uint16](r, "volume")
	p.Reserved16 = binary.ReadChained[uint16](r, "reserved")
	for i := range p.Reserved32 {
		p.Reserved32[i] = binary.ReadChained[uint32](r, "reserved")
	}
	for i := range p.Matrix {
		p.Matrix[i] = binary.ReadChained[uint32](r, "matrix")
	}
	for i := range p.PreDefined {
		p.PreDefined[i] = binary.ReadChained[uint32](r, "pre_defined")
	}
	p.NextTrackID = binary.ReadChained[uint32](r, "next track id")
	return finish(r, p)
}

func decodeTrackHeader(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.TrackHeader{}
	p.CreationTime = versioned(r, h, "creation time")
	p.ModificationTime = versioned(r, h, "modification time")
	p.TrackID = binary.ReadChained[uint32](r, "track id")
	p.Reserved1 = binary.ReadChained[uint32](r, "reserved")
	p.Duration = versioned(r, h, "duration")
	for i := range p.Reserved2 {
		p.Reserved2[i] = binary.ReadChained[uint32](r, "reserved")
	}
	p.Layer = int16(binary.ReadChained[uint16](r, "layer"))
	p.AlternateGroup = int16(binary.ReadChained[uint16](r, "alternate group"))
	p.Volume = binary.ReadChained[uint16](r, "volume")
	p.Reserved3 = binary.ReadChained[uint16](r, "reserved")
	for i := range p.Matrix {
		p.Matrix[i] = binary.ReadChained[uint32](r, "matrix")
	}
	p.Width = binary.ReadChained[uint32](r, "width")
	p.Height = binary.ReadChained[uint32](r, "height")
	return finish(r, p)
}

func decodeEditList(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.EditList{EntryCount: binary.ReadChained[uint32](r, "entry count")}

	record := 12
	if h.Version == 1 {
		record = 20
	}
	p.Entries = make([]box.EditListEntry, 0, capacity(r, p.EntryCount, record))
	for i := uint32(0); i < p.EntryCount && r.Error() == nil; i++ {
		var e box.EditListEntry
		if h.Version == 1 {
			e.SegmentDuration = binary.ReadChained[uint64](r, "segment duration")
			e.MediaTime = int64(binary.ReadChained[uint64](r, "media time"))
		} else {
			e.SegmentDuration = uint64(binary.ReadChained[uint32](r, "segment duration"))
			e.MediaTime = int64(int32(binary.ReadChained[uint32](r, "media time")))
		}
		e.MediaRateInteger = int16(binary.ReadChained[uint16](r, "media rate integer"))
		e.MediaRateFraction = int16(binary.ReadChained[uint16](r, "media rate fraction"))
		p.Entries = append(p.Entries, e)
	}
	return finish(r, p)
}

func decodeMediaHeader(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.MediaHeader{}
	p.CreationTime = versioned(r, h, "creation time")
	p.ModificationTime = versioned(r, h, "modification time")
	p.Timescale = binary.ReadChained[uint32](r, "timescale")
	p.Duration = versioned(r, h, "duration")
	p.LanguageCode = binary.ReadChained[uint16](r, "language")
	p.PreDefined = binary.ReadChained[uint16](r, "pre_defined")
	if r.Error() == nil {
		lang, err := Language(p.LanguageCode)
		if err != nil {
			r.Fail(err)
		}
		p.Language = lang
	}
	return finish(r, p)
}

// Language unpacks an mdhd language code: one pad bit followed by three
// 5-bit letters, each stored as the letter minus 0x60.
func Language(packed uint16) (string, error) {
	br := bitio.NewReader(bytes.NewReader([]byte{byte(packed >> 8), byte(packed)}))
	br.TryReadBits(1)
	var code [3]byte
	for i := range code {
		code[i] = byte(br.TryReadBits(5)) + 0x60
	}
	if br.TryError != nil {
		return "", br.TryError
	}
	return string(code[:]), nil
}

func decodeHandler(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.Handler{}
	p.PreDefined = binary.ReadChained[uint32](r, "pre_defined")
	p.HandlerType = fourCC(r, "handler type")
	for i := range p.Reserved {
		p.Reserved[i] = binary.ReadChained[uint32](r, "reserved")
	}
	p.Name = handlerName(r.Rest("name"))
	return finish(r, p)
}

// handlerName accepts both the NUL terminated names of ISO files and the
// counted strings QuickTime writes.
func handlerName(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	if len(b) > 0 && int(b[0]) == len(b)-1 {
		b = b[1:]
	}
	return string(b)
}

func decodeVideoMediaHeader(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.VideoMediaHeader{GraphicsMode: binary.ReadChained[uint16](r, "graphics mode")}
	for i := range p.OpColor {
		p.OpColor[i] = binary.ReadChained[uint16](r, "opcolor")
	}
	return finish(r, p)
}

func decodeSoundMediaHeader(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.SoundMediaHeader{
		Balance:  int16(binary.ReadChained[uint16](r, "balance")),
		Reserved: binary.ReadChained[uint16](r, "reserved"),
	}
	return finish(r, p)
}

func decodeHintMediaHeader(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.HintMediaHeader{
		MaxPDUSize: binary.ReadChained[uint16](r, "max pdu size"),
		AvgPDUSize: binary.ReadChained[uint16](r, "avg pdu size"),
		MaxBitrate: binary.ReadChained[uint32](r, "max bitrate"),
		AvgBitrate: binary.ReadChained[uint32](r, "avg bitrate"),
		Reserved:   binary.ReadChained[uint32](r, "reserved"),
	}
	return finish(r, p)
}

func decodeDataReference(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.DataReference{EntryCount: binary.ReadChained[uint32](r, "entry count")}
	return finish(r, p)
}

func decodeDataEntryURL(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.DataEntryURL{}
	if !h.HasFlag(box.DataEntrySelfContained) {
		p.Location = string(bytes.TrimRight(r.Rest("location"), "\x00"))
	}
	return finish(r, p)
}
