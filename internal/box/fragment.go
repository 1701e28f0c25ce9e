package box

// MovieExtendsHeader is the mehd payload.
type MovieExtendsHeader struct {
	FragmentDuration uint64 `json:"fragment_duration"`
}

// TrackExtends is the trex payload.
type TrackExtends struct {
	TrackID                       uint32 `json:"track_id"`
	DefaultSampleDescriptionIndex uint32 `json:"default_sample_description_index"`
	DefaultSampleDuration         uint32 `json:"default_sample_duration"`
	DefaultSampleSize             uint32 `json:"default_sample_size"`
	DefaultSampleFlags            uint32 `json:"default_sample_flags"`
}

// MovieFragmentHeader is the mfhd payload.
type MovieFragmentHeader struct {
	SequenceNumber uint32 `json:"sequence_number"`
}

// Track fragment header flags.
const (
	TfhdBaseDataOffset         = 0x000001
	TfhdSampleDescriptionIndex = 0x000002
	TfhdDefaultSampleDuration  = 0x000008
	TfhdDefaultSampleSize      = 0x000010
	TfhdDefaultSampleFlags     = 0x000020
	TfhdDurationIsEmpty        = 0x010000
	TfhdDefaultBaseIsMoof      = 0x020000
)

// TrackFragmentHeader is the tfhd payload. Fields whose flag is clear are zero.
type TrackFragmentHeader struct {
	TrackID                uint32 `json:"track_id"`
	BaseDataOffset         uint64 `json:"base_data_offset"`
	SampleDescriptionIndex uint32 `json:"sample_description_index"`
	DefaultSampleDuration  uint32 `json:"default_sample_duration"`
	DefaultSampleSize      uint32 `json:"default_sample_size"`
	DefaultSampleFlags     uint32 `json:"default_sample_flags"`
}

// TrackFragmentDecodeTime is the tfdt payload.
type TrackFragmentDecodeTime struct {
	BaseMediaDecodeTime uint64 `json:"base_media_decode_time"`
}

// Track run flags.
const (
	TrunDataOffset                  = 0x000001
	TrunFirstSampleFlags            = 0x000004
	TrunSampleDuration              = 0x000100
	TrunSampleSize                  = 0x000200
	TrunSampleFlags                 = 0x000400
	TrunSampleCompositionTimeOffset = 0x000800
)

// TrackRun is the trun payload.
type TrackRun struct {
	SampleCount      uint32           `json:"sample_count"`
	DataOffset       uint32           `json:"data_offset"`
	FirstSampleFlags uint32           `json:"first_sample_flags"`
	Samples          []TrackRunSample `json:"samples"`
}

// TrackRunSample holds the per-sample fields of a run. Fields whose flag
// is clear are zero.
type TrackRunSample struct {
	Duration              uint32 `json:"duration"`
	Size                  uint32 `json:"size"`
	Flags                 uint32 `json:"flags"`
	CompositionTimeOffset int32  `json:"composition_time_offset"`
}

// TrackFragmentRandomAccess is the tfra payload.
type TrackFragmentRandomAccess struct {
	TrackID               uint32                           `json:"track_id"`
	Reserved              uint32                           `json:"reserved"` // 26 bits
	LengthSizeOfTrafNum   uint8                            `json:"length_size_of_traf_num"`
	LengthSizeOfTrunNum   uint8                            `json:"length_size_of_trun_num"`
	LengthSizeOfSampleNum uint8                            `json:"length_size_of_sample_num"`
	NumberOfEntry         uint32                           `json:"number_of_entry"`
	Entries               []TrackFragmentRandomAccessEntry `json:"entries"`
}

// TrackFragmentRandomAccessEntry is one sync point. The three numbers are
// kept as the big-endian bytes they were stored as; Number decodes them.
type TrackFragmentRandomAccessEntry struct {
	Time         uint64 `json:"time"`
	MoofOffset   uint64 `json:"moof_offset"`
	TrafNumber   []byte `json:"traf_number"`
	TrunNumber   []byte `json:"trun_number"`
	SampleNumber []byte `json:"sample_number"`
}

// Number interprets a variable-width tfra number as big-endian.
func Number(b []byte) uint32 {
	var n uint32
	for _, c := range b {
		n = n<<8 | uint32(c)
	}
	return n
}

// MovieFragmentRandomAccessOffset is the mfro payload.
type MovieFragmentRandomAccessOffset struct {
	Size uint32 `json:"size"`
}
