package summary

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// codecNames maps sample entry types to human-readable names.
var codecNames = map[string]string{
	// AAC family
	"mp4a": "AAC",
	"mhm1": "xHE-AAC",
	"mhm2": "xHE-AAC v2",

	// Dolby
	"ac-3": "AC-3",
	"ec-3": "E-AC-3",
	"ac-4": "AC-4",

	// Lossless
	"alac": "Apple Lossless",
	"fLaC": "FLAC",

	"Opus": "Opus",
	".mp3": "MP3",

	// Video
	"avc1": "H.264",
	"avc2": "H.264",
	"avc3": "H.264",
	"hvc1": "HEVC",
	"hev1": "HEVC",
	"mp4v": "MPEG-4 Visual",
	"av01": "AV1",
	"vp09": "VP9",

	// Protected entries keep their original format in sinf/frma.
	"enca": "Encrypted audio",
	"encv": "Encrypted video",

	"tx3g": "3GPP timed text",
	"text": "QuickTime text",
	"wvtt": "WebVTT",
	"stpp": "TTML",
}

// codecName returns the name for a sample entry type, or the type itself.
func codecName(fourCC string) string {
	if name, ok := codecNames[fourCC]; ok {
		return name
	}
	return fourCC
}

// aacProfiles maps MPEG-4 audio object types to profile names.
var aacProfiles = map[uint8]string{
	1:  "AAC Main",
	2:  "AAC-LC",
	3:  "AAC-SSR",
	4:  "AAC-LTP",
	5:  "HE-AAC",
	6:  "AAC Scalable",
	29: "HE-AAC v2",
	42: "xHE-AAC",
}

func aacProfile(objectType uint8) string {
	return aacProfiles[objectType]
}

// avcProfiles maps H.264 profile_idc values to names.
var avcProfiles = map[uint8]string{
	66:  "Baseline",
	77:  "Main",
	88:  "Extended",
	100: "High",
	110: "High 10",
	122: "High 4:2:2",
	244: "High 4:4:4",
}

// avcProfile returns "High@4.1" style text, or "" for an unknown profile.
func avcProfile(profile, level uint8) string {
	name, ok := avcProfiles[profile]
	if !ok {
		return ""
	}
	if level == 0 {
		return name
	}
	return fmt.Sprintf("%s@%d.%d", name, level/10, level%10)
}

// Descriptor tags of ISO/IEC 14496-1 used in esds.
const (
	tagESDescriptor            = 0x03
	tagDecoderConfigDescriptor = 0x04
	tagDecoderSpecificInfo     = 0x05
)

type decoderConfig struct {
	objectTypeIndication uint8
	avgBitrate           uint32
	objectType           uint8 // from the AudioSpecificConfig
}

// parseESDescriptor walks ES_Descriptor -> DecoderConfigDescriptor ->
// DecoderSpecificInfo far enough to reach the audio object type. It
// reports false when the descriptor chain is not where it should be.
func parseESDescriptor(data []byte) (decoderConfig, bool) {
	var cfg decoderConfig
	br := bitio.NewReader(bytes.NewReader(data))

	if tag, _ := descriptorHeader(br); tag != tagESDescriptor {
		return cfg, false
	}
	br.TryReadBits(16) // ES_ID
	dependsOn := br.TryReadBool()
	hasURL := br.TryReadBool()
	hasOCR := br.TryReadBool()
	br.TryReadBits(5) // streamPriority
	if dependsOn {
		br.TryReadBits(16)
	}
	if hasURL {
		n := br.TryReadBits(8)
		for range n {
			br.TryReadBits(8)
		}
	}
	if hasOCR {
		br.TryReadBits(16)
	}

	if tag, _ := descriptorHeader(br); tag != tagDecoderConfigDescriptor {
		return cfg, false
	}
	cfg.objectTypeIndication = uint8(br.TryReadBits(8))
	br.TryReadBits(8)  // streamType, upStream, reserved
	br.TryReadBits(24) // bufferSizeDB
	br.TryReadBits(32) // maxBitrate
	cfg.avgBitrate = uint32(br.TryReadBits(32))

	if tag, _ := descriptorHeader(br); tag != tagDecoderSpecificInfo {
		return cfg, br.TryError == nil
	}
	cfg.objectType = uint8(br.TryReadBits(5))
	if cfg.objectType == 31 {
		cfg.objectType = 32 + uint8(br.TryReadBits(6))
	}

	return cfg, br.TryError == nil
}

// descriptorHeader reads a descriptor tag and its expandable size, up to
// four 7-bit groups.
func descriptorHeader(br *bitio.Reader) (tag uint8, size uint32) {
	tag = uint8(br.TryReadBits(8))
	for range 4 {
		more := br.TryReadBool()
		size = size<<7 | uint32(br.TryReadBits(7))
		if !more {
			break
		}
	}
	if br.TryError != nil {
		return 0, 0
	}
	return tag, size
}
