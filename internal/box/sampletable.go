package box

// TimeToSample is the stts payload.
type TimeToSample struct {
	EntryCount uint32              `json:"entry_count"`
	Entries    []TimeToSampleEntry `json:"entries"`
}

// TimeToSampleEntry is one run of samples sharing a duration.
type TimeToSampleEntry struct {
	SampleCount uint32 `json:"sample_count"`
	SampleDelta uint32 `json:"sample_delta"`
}

// CompositionOffset is the ctts payload. Offsets are unsigned in version 0
// and signed in version 1; both are held as int64.
type CompositionOffset struct {
	EntryCount uint32                   `json:"entry_count"`
	Entries    []CompositionOffsetEntry `json:"entries"`
}

// CompositionOffsetEntry is one run of samples sharing an offset.
type CompositionOffsetEntry struct {
	SampleCount  uint32 `json:"sample_count"`
	SampleOffset int64  `json:"sample_offset"`
}

// SyncSample is the stss payload.
type SyncSample struct {
	EntryCount    uint32   `json:"entry_count"`
	SampleNumbers []uint32 `json:"sample_numbers"`
}

// ShadowSyncSample is the stsh payload.
type ShadowSyncSample struct {
	EntryCount uint32                  `json:"entry_count"`
	Entries    []ShadowSyncSampleEntry `json:"entries"`
}

// ShadowSyncSampleEntry maps a sample to its alternative sync sample.
type ShadowSyncSampleEntry struct {
	ShadowedSampleNumber uint32 `json:"shadowed_sample_number"`
	SyncSampleNumber     uint32 `json:"sync_sample_number"`
}

// SampleToChunk is the stsc payload.
type SampleToChunk struct {
	EntryCount uint32               `json:"entry_count"`
	Entries    []SampleToChunkEntry `json:"entries"`
}

// SampleToChunkEntry is one run of chunks with the same layout.
type SampleToChunkEntry struct {
	FirstChunk             uint32 `json:"first_chunk"`
	SamplesPerChunk        uint32 `json:"samples_per_chunk"`
	SampleDescriptionIndex uint32 `json:"sample_description_index"`
}

// ChunkOffset is the stco and co64 payload. 32-bit offsets are widened.
type ChunkOffset struct {
	EntryCount uint32   `json:"entry_count"`
	Offsets    []uint64 `json:"offsets"`
}

// SampleSize is the stsz payload. EntrySizes is empty when SampleSize is
// non-zero, because every sample then has that size.
type SampleSize struct {
	SampleSize  uint32   `json:"sample_size"`
	SampleCount uint32   `json:"sample_count"`
	EntrySizes  []uint32 `json:"entry_sizes,omitempty"`
}

// Size returns the size of the 1-based sample n, or 0 when out of range.
func (s *SampleSize) Size(n uint32) uint32 {
	if s.SampleSize != 0 {
		if n >= 1 && n <= s.SampleCount {
			return s.SampleSize
		}
		return 0
	}
	if n < 1 || int(n) > len(s.EntrySizes) {
		return 0
	}
	return s.EntrySizes[n-1]
}

// CompactSampleSize is the stz2 payload.
type CompactSampleSize struct {
	Reserved    uint32   `json:"reserved"` // 24 bits
	FieldSize   uint8    `json:"field_size"`
	SampleCount uint32   `json:"sample_count"`
	EntrySizes  []uint16 `json:"entry_sizes"`
}

// SampleDescription is the stsd payload; the sample entries are its children.
type SampleDescription struct {
	EntryCount uint32 `json:"entry_count"`
}
