package decode

import (
	"bytes"

	codec "github.com/yapingcat/gomedia/go-codec"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/registry"
)

// Sample entries nest their configuration boxes (esds, avcC, btrt, sinf,
// ...), so every entry is a container.
func init() {
	for _, code := range []string{"mp4a", "enca"} {
		register(code, registry.Entry{Kind: box.KindAudioSampleEntry, Container: true, Decode: decodeAudioSampleEntry})
	}
	for _, code := range []string{"mp4v", "encv", "hvc1", "hev1"} {
		register(code, registry.Entry{Kind: box.KindVisualSampleEntry, Container: true, Decode: decodeVisualSampleEntry})
	}
	for _, code := range []string{"avc1", "avc2", "avc3"} {
		register(code, registry.Entry{Kind: box.KindAVCSampleEntry, Container: true, Decode: decodeVisualSampleEntry})
	}
	register("esds", registry.Entry{Kind: box.KindESDescriptor, Full: true, Decode: decodeESDescriptor})
	register("avcC", registry.Entry{Kind: box.KindAVCConfiguration, Decode: decodeAVCConfiguration})
}

func readSampleEntry(r *binary.ChainReader) box.SampleEntry {
	var e box.SampleEntry
	copy(e.Reserved[:], r.Bytes(len(e.Reserved), "reserved"))
	e.DataReferenceIndex = binary.ReadChained[uint16](r, "data reference index")
	return e
}

// QuickTime sound description versions 1 and 2 append fields to the
// entry before its child boxes.
var quickTimeSoundExtension = map[uint16]int{1: 16, 2: 36}

func decodeAudioSampleEntry(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.AudioSampleEntry{SampleEntry: readSampleEntry(r)}
	for i := range p.Reserved32 {
		p.Reserved32[i] = binary.ReadChained[uint32](r, "reserved")
	}
	p.ChannelCount = binary.ReadChained[uint16](r, "channel count")
	p.SampleSize = binary.ReadChained[uint16](r, "sample size")
	p.PreDefined = binary.ReadChained[uint16](r, "pre_defined")
	p.Reserved16 = binary.ReadChained[uint16](r, "reserved")
	p.SampleRateRaw = binary.ReadChained[uint32](r, "sample rate")
	p.SampleRate = p.SampleRateRaw >> 16

	if n, ok := quickTimeSoundExtension[uint16(p.Reserved32[0]>>16)]; ok && r.Remaining() >= int64(n) {
		p.QuickTimeExtension = r.Bytes(n, "quicktime sound description")
	}
	return finish(r, p)
}

func decodeVisualSampleEntry(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.VisualSampleEntry{SampleEntry: readSampleEntry(r)}
	p.PreDefined1 = binary.ReadChained[uint16](r, "pre_defined")
	p.Reserved1 = binary.ReadChained[uint16](r, "reserved")
	for i := range p.PreDefined2 {
		p.PreDefined2[i] = binary.ReadChained[uint32](r, "pre_defined")
	}
	p.Width = binary.ReadChained[uint16](r, "width")
	p.Height = binary.ReadChained[uint16](r, "height")
	p.HorizResolution = binary.ReadChained[uint32](r, "horizontal resolution")
	p.VertResolution = binary.ReadChained[uint32](r, "vertical resolution")
	p.Reserved2 = binary.ReadChained[uint32](r, "reserved")
	p.FrameCount = binary.ReadChained[uint16](r, "frame count")
	p.CompressorName = compressorName(r.Bytes(32, "compressor name"))
	p.Depth = binary.ReadChained[uint16](r, "depth")
	p.PreDefined3 = int16(binary.ReadChained[uint16](r, "pre_defined"))
	return finish(r, p)
}

// compressorName decodes the fixed 32-byte field: a length byte followed
// by up to 31 bytes of name.
func compressorName(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	n := int(b[0])
	if n > len(b)-1 {
		n = len(b) - 1
	}
	return string(bytes.TrimRight(b[1:1+n], "\x00"))
}

func decodeESDescriptor(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.ESDescriptor{Descriptor: r.Rest("es descriptor")}
	return finish(r, p)
}

func decodeAVCConfiguration(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.AVCConfiguration{Record: r.Rest("decoder configuration record")}
	if r.Error() == nil {
		parseAVCRecord(p)
	}
	return finish(r, p)
}

// parseAVCRecord fills the header fields and parameter sets of an
// AVCDecoderConfigurationRecord. A record that is cut short keeps whatever
// was complete; Record itself is always retained.
func parseAVCRecord(p *box.AVCConfiguration) {
	if len(p.Record) < 7 {
		return
	}

	bs := codec.NewBitStream(p.Record)
	p.ConfigurationVersion = bs.Uint8(8)
	p.Profile = bs.Uint8(8)
	p.ProfileCompatibility = bs.Uint8(8)
	p.Level = bs.Uint8(8)
	bs.Uint8(6) // reserved
	p.NALUnitLength = bs.Uint8(2) + 1
	bs.Uint8(3) // reserved
	numSPS := int(bs.Uint8(5))

	rest := bs.RemainData()
	p.SPS, rest = parameterSets(rest, numSPS)
	if len(rest) < 1 {
		return
	}
	p.PPS, _ = parameterSets(rest[1:], int(rest[0]))
}

func parameterSets(b []byte, count int) ([][]byte, []byte) {
	var sets [][]byte
	for i := 0; i < count; i++ {
		if len(b) < 2 {
			return sets, nil
		}
		n := int(b[0])<<8 | int(b[1])
		if len(b) < 2+n {
			return sets, nil
		}
		sets = append(sets, b[2:2+n])
		b = b[2+n:]
	}
	return sets, b
}
