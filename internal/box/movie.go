package box

// FileType is the ftyp payload.
type FileType struct {
	MajorBrand       FourCC   `json:"major_brand"`
	MinorVersion     uint32   `json:"minor_version"`
	CompatibleBrands []FourCC `json:"compatible_brands"`
}

// Brands returns the major brand followed by the compatible brands, as strings.
func (f *FileType) Brands() (string, []string) {
	compatible := make([]string, len(f.CompatibleBrands))
	for i, b := range f.CompatibleBrands {
		compatible[i] = b.String()
	}
	return f.MajorBrand.String(), compatible
}

// MovieHeader is the mvhd payload. Times and duration are widened to 64
// bits whatever the box version.
type MovieHeader struct {
	CreationTime     uint64    `json:"creation_time"`
	ModificationTime uint64    `json:"modification_time"`
	Timescale        uint32    `json:"timescale"`
	Duration         uint64    `json:"duration"`
	Rate             uint32    `json:"rate"`   // 16.16
	Volume           uint16    `json:"volume"` // 8.8
	Reserved16       uint16    `json:"reserved16"`
	Reserved32       [2]uint32 `json:"reserved32"`
	Matrix           [9]uint32 `json:"matrix"`
	PreDefined       [6]uint32 `json:"pre_defined"`
	NextTrackID      uint32    `json:"next_track_id"`
}

// TrackHeader flags.
const (
	TrackEnabled   = 0x000001
	TrackInMovie   = 0x000002
	TrackInPreview = 0x000004
)

// TrackHeader is the tkhd payload.
type TrackHeader struct {
	CreationTime     uint64    `json:"creation_time"`
	ModificationTime uint64    `json:"modification_time"`
	TrackID          uint32    `json:"track_id"`
	Reserved1        uint32    `json:"reserved1"`
	Duration         uint64    `json:"duration"`
	Reserved2        [2]uint32 `json:"reserved2"`
	Layer            int16     `json:"layer"`
	AlternateGroup   int16     `json:"alternate_group"`
	Volume           uint16    `json:"volume"` // 8.8
	Reserved3        uint16    `json:"reserved3"`
	Matrix           [9]uint32 `json:"matrix"`
	Width            uint32    `json:"width"`  // 16.16
	Height           uint32    `json:"height"` // 16.16
}

// EditList is the elst payload.
type EditList struct {
	EntryCount uint32          `json:"entry_count"`
	Entries    []EditListEntry `json:"entries"`
}

// EditListEntry is one edit. MediaTime -1 marks an empty edit.
type EditListEntry struct {
	SegmentDuration   uint64 `json:"segment_duration"`
	MediaTime         int64  `json:"media_time"`
	MediaRateInteger  int16  `json:"media_rate_integer"`
	MediaRateFraction int16  `json:"media_rate_fraction"`
}

// MediaHeader is the mdhd payload.
type MediaHeader struct {
	CreationTime     uint64 `json:"creation_time"`
	ModificationTime uint64 `json:"modification_time"`
	Timescale        uint32 `json:"timescale"`
	Duration         uint64 `json:"duration"`

	// Language is the decoded ISO-639-2/T code; LanguageCode keeps the
	// packed 16-bit value it came from.
	Language     string `json:"language"`
	LanguageCode uint16 `json:"language_code"`
	PreDefined   uint16 `json:"pre_defined"`
}

// Handler is the hdlr payload.
type Handler struct {
	PreDefined  uint32    `json:"pre_defined"`
	HandlerType FourCC    `json:"handler_type"`
	Reserved    [3]uint32 `json:"reserved"`
	Name        string    `json:"name"`
}

// Common handler types.
var (
	HandlerVideo = MustFourCC("vide")
	HandlerSound = MustFourCC("soun")
	HandlerHint  = MustFourCC("hint")
	HandlerMeta  = MustFourCC("meta")
	HandlerText  = MustFourCC("text")
	HandlerSubt  = MustFourCC("subt")
)

// VideoMediaHeader is the vmhd payload.
type VideoMediaHeader struct {
	GraphicsMode uint16    `json:"graphics_mode"`
	OpColor      [3]uint16 `json:"opcolor"`
}

// SoundMediaHeader is the smhd payload.
type SoundMediaHeader struct {
	Balance  int16  `json:"balance"` // 8.8
	Reserved uint16 `json:"reserved"`
}

// HintMediaHeader is the hmhd payload.
type HintMediaHeader struct {
	MaxPDUSize uint16 `json:"max_pdu_size"`
	AvgPDUSize uint16 `json:"avg_pdu_size"`
	MaxBitrate uint32 `json:"max_bitrate"`
	AvgBitrate uint32 `json:"avg_bitrate"`
	Reserved   uint32 `json:"reserved"`
}

// DataReference is the dref payload; the entries are its children.
type DataReference struct {
	EntryCount uint32 `json:"entry_count"`
}

// DataEntrySelfContained is the url flag meaning the media is in this file.
const DataEntrySelfContained = 0x000001

// DataEntryURL is the "url " payload.
type DataEntryURL struct {
	Location string `json:"location,omitempty"`
}
