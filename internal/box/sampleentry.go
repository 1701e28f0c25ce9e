package box

// SampleEntry holds the fields shared by every sample entry.
type SampleEntry struct {
	Reserved           [6]uint8 `json:"reserved"`
	DataReferenceIndex uint16   `json:"data_reference_index"`
}

// AudioSampleEntry is the payload of mp4a and the other audio entries.
type AudioSampleEntry struct {
	SampleEntry

	Reserved32   [2]uint32 `json:"reserved32"`
	ChannelCount uint16    `json:"channel_count"`
	SampleSize   uint16    `json:"sample_size"`
	PreDefined   uint16    `json:"pre_defined"`
	Reserved16   uint16    `json:"reserved16"`

	// SampleRate is the integer part in Hz; SampleRateRaw is the 16.16
	// value as stored.
	SampleRate    uint32 `json:"sample_rate"`
	SampleRateRaw uint32 `json:"sample_rate_raw"`

	// QuickTimeExtension holds the extra fields of QuickTime sound
	// description versions 1 and 2 (the version is the top half of
	// Reserved32[0]).
	QuickTimeExtension []byte `json:"quicktime_extension,omitempty"`
}

// VisualSampleEntry is the payload of mp4v, avc1..3 and the other video
// entries. Resolutions are kept as stored (16.16 fixed point).
type VisualSampleEntry struct {
	SampleEntry

	PreDefined1     uint16    `json:"pre_defined1"`
	Reserved1       uint16    `json:"reserved1"`
	PreDefined2     [3]uint32 `json:"pre_defined2"`
	Width           uint16    `json:"width"`
	Height          uint16    `json:"height"`
	HorizResolution uint32    `json:"horiz_resolution"`
	VertResolution  uint32    `json:"vert_resolution"`
	Reserved2       uint32    `json:"reserved2"`
	FrameCount      uint16    `json:"frame_count"`
	CompressorName  string    `json:"compressor_name"`
	Depth           uint16    `json:"depth"`
	PreDefined3     int16     `json:"pre_defined3"`
}

// ESDescriptor is the esds payload. The descriptor bytes are not decoded.
type ESDescriptor struct {
	Descriptor []byte `json:"descriptor"`
}

// AVCConfiguration is the avcC payload. Record always holds the raw
// decoder configuration record; the remaining fields are filled when the
// record is long enough to carry them.
type AVCConfiguration struct {
	Record []byte `json:"record"`

	ConfigurationVersion uint8    `json:"configuration_version"`
	Profile              uint8    `json:"profile"`
	ProfileCompatibility uint8    `json:"profile_compatibility"`
	Level                uint8    `json:"level"`
	NALUnitLength        uint8    `json:"nal_unit_length"`
	SPS                  [][]byte `json:"sps,omitempty"`
	PPS                  [][]byte `json:"pps,omitempty"`
}
