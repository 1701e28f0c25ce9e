package isobmff

import (
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/dump"
	"github.com/simonhull/isobmff/internal/types"
)

// Box tree.
type (
	Box    = box.Box
	Header = box.Header
	FourCC = box.FourCC
	Kind   = box.Kind
)

// Box payloads, one per decoded kind.
type (
	FileType                        = box.FileType
	MovieHeader                     = box.MovieHeader
	TrackHeader                     = box.TrackHeader
	EditList                        = box.EditList
	EditListEntry                   = box.EditListEntry
	MediaHeader                     = box.MediaHeader
	Handler                         = box.Handler
	VideoMediaHeader                = box.VideoMediaHeader
	SoundMediaHeader                = box.SoundMediaHeader
	HintMediaHeader                 = box.HintMediaHeader
	DataReference                   = box.DataReference
	DataEntryURL                    = box.DataEntryURL
	SampleDescription               = box.SampleDescription
	SampleEntry                     = box.SampleEntry
	AudioSampleEntry                = box.AudioSampleEntry
	VisualSampleEntry               = box.VisualSampleEntry
	ESDescriptor                    = box.ESDescriptor
	AVCConfiguration                = box.AVCConfiguration
	TimeToSample                    = box.TimeToSample
	TimeToSampleEntry               = box.TimeToSampleEntry
	CompositionOffset               = box.CompositionOffset
	CompositionOffsetEntry          = box.CompositionOffsetEntry
	SyncSample                      = box.SyncSample
	ShadowSyncSample                = box.ShadowSyncSample
	ShadowSyncSampleEntry           = box.ShadowSyncSampleEntry
	SampleToChunk                   = box.SampleToChunk
	SampleToChunkEntry              = box.SampleToChunkEntry
	ChunkOffset                     = box.ChunkOffset
	SampleSize                      = box.SampleSize
	CompactSampleSize               = box.CompactSampleSize
	MovieExtendsHeader              = box.MovieExtendsHeader
	TrackExtends                    = box.TrackExtends
	MovieFragmentHeader             = box.MovieFragmentHeader
	TrackFragmentHeader             = box.TrackFragmentHeader
	TrackFragmentDecodeTime         = box.TrackFragmentDecodeTime
	TrackRun                        = box.TrackRun
	TrackRunSample                  = box.TrackRunSample
	TrackFragmentRandomAccess       = box.TrackFragmentRandomAccess
	TrackFragmentRandomAccessEntry  = box.TrackFragmentRandomAccessEntry
	MovieFragmentRandomAccessOffset = box.MovieFragmentRandomAccessOffset
	ProtectionSystemHeader          = box.ProtectionSystemHeader
	SampleEncryption                = box.SampleEncryption
	TrackReferenceType              = box.TrackReferenceType
	ItemData                        = box.ItemData
	ChapterList                     = box.ChapterList
	ChapterListEntry                = box.ChapterListEntry
)

// Presentation summary.
type (
	Info    = types.Info
	Track   = types.Track
	Tags    = types.Tags
	Artwork = types.Artwork
	Chapter = types.Chapter
)

// DumpOptions controls File.Dump.
type DumpOptions = dump.Options

// ParseFourCC converts a string of up to four characters to a FourCC,
// padding short codes with spaces.
func ParseFourCC(s string) (FourCC, error) {
	return box.ParseFourCC(s)
}

// MustFourCC is like ParseFourCC but panics on invalid input.
func MustFourCC(s string) FourCC {
	return box.MustFourCC(s)
}
