package box

// Kind tags the payload variant of a box. The registry assigns one Kind
// per type code; several codes may share a Kind (stco and co64 do not, but
// the sample entry codes do).
type Kind int

// Payload kinds.
const (
	KindUnknown Kind = iota
	KindExtension
	KindFileType
	KindMovie
	KindMovieHeader
	KindTrack
	KindTrackHeader
	KindEdit
	KindEditList
	KindMedia
	KindMediaHeader
	KindHandler
	KindMediaInformation
	KindVideoMediaHeader
	KindSoundMediaHeader
	KindHintMediaHeader
	KindNullMediaHeader
	KindDataInformation
	KindDataReference
	KindDataEntryURL
	KindSampleTable
	KindTimeToSample
	KindCompositionOffset
	KindSyncSample
	KindShadowSyncSample
	KindSampleToChunk
	KindChunkOffset
	KindChunkLargeOffset
	KindSampleSize
	KindCompactSampleSize
	KindSampleDescription
	KindAudioSampleEntry
	KindVisualSampleEntry
	KindAVCSampleEntry
	KindESDescriptor
	KindAVCConfiguration
	KindMovieExtends
	KindMovieExtendsHeader
	KindTrackExtends
	KindMovieFragment
	KindMovieFragmentHeader
	KindTrackFragment
	KindTrackFragmentHeader
	KindTrackFragmentDecodeTime
	KindTrackRun
	KindMediaData
	KindMovieFragmentRandomAccess
	KindTrackFragmentRandomAccess
	KindMovieFragmentRandomAccessOffset
	KindProtectionSystemHeader
	KindSampleEncryption
	KindUserData
	KindFreeSpace
	KindTrackReference
	KindTrackReferenceType
	KindMeta
	KindItemList
	KindMetadataItem
	KindItemData
	KindChapterList
)

var kindNames = [...]string{
	KindUnknown:                         "unknown",
	KindExtension:                       "extension",
	KindFileType:                        "file type",
	KindMovie:                           "movie",
	KindMovieHeader:                     "movie header",
	KindTrack:                           "track",
	KindTrackHeader:                     "track header",
	KindEdit:                            "edit",
	KindEditList:                        "edit list",
	KindMedia:                           "media",
	KindMediaHeader:                     "media header",
	KindHandler:                         "handler reference",
	KindMediaInformation:                "media information",
	KindVideoMediaHeader:                "video media header",
	KindSoundMediaHeader:                "sound media header",
	KindHintMediaHeader:                 "hint media header",
	KindNullMediaHeader:                 "null media header",
	KindDataInformation:                 "data information",
	KindDataReference:                   "data reference",
	KindDataEntryURL:                    "data entry url",
	KindSampleTable:                     "sample table",
	KindTimeToSample:                    "time to sample",
	KindCompositionOffset:               "composition offset",
	KindSyncSample:                      "sync sample",
	KindShadowSyncSample:                "shadow sync sample",
	KindSampleToChunk:                   "sample to chunk",
	KindChunkOffset:                     "chunk offset",
	KindChunkLargeOffset:                "chunk large offset",
	KindSampleSize:                      "sample size",
	KindCompactSampleSize:               "compact sample size",
	KindSampleDescription:               "sample description",
	KindAudioSampleEntry:                "audio sample entry",
	KindVisualSampleEntry:               "visual sample entry",
	KindAVCSampleEntry:                  "avc sample entry",
	KindESDescriptor:                    "elementary stream descriptor",
	KindAVCConfiguration:                "avc configuration",
	KindMovieExtends:                    "movie extends",
	KindMovieExtendsHeader:              "movie extends header",
	KindTrackExtends:                    "track extends",
	KindMovieFragment:                   "movie fragment",
	KindMovieFragmentHeader:             "movie fragment header",
	KindTrackFragment:                   "track fragment",
	KindTrackFragmentHeader:             "track fragment header",
	KindTrackFragmentDecodeTime:         "track fragment decode time",
	KindTrackRun:                        "track run",
	KindMediaData:                       "media data",
	KindMovieFragmentRandomAccess:       "movie fragment random access",
	KindTrackFragmentRandomAccess:       "track fragment random access",
	KindMovieFragmentRandomAccessOffset: "movie fragment random access offset",
	KindProtectionSystemHeader:          "protection system header",
	KindSampleEncryption:                "sample encryption",
	KindUserData:                        "user data",
	KindFreeSpace:                       "free space",
	KindTrackReference:                  "track reference",
	KindTrackReferenceType:              "track reference type",
	KindMeta:                            "meta",
	KindItemList:                        "item list",
	KindMetadataItem:                    "metadata item",
	KindItemData:                        "item data",
	KindChapterList:                     "chapter list",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
