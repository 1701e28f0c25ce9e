// Package types holds the error model and the presentation summary types
// shared by the decoder packages and the public API.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Info summarises a decoded box tree: brands, overall duration, and one
// entry per track.
//
// Info is derived from the tree after the walk. Every field is
// best-effort; a field is zero when the boxes it comes from are missing or
// failed to decode.
type Info struct {
	MajorBrand       string
	CompatibleBrands []string

	// Timescale and Duration come from mvhd, or from mehd for fragmented
	// files whose mvhd carries no duration.
	Timescale uint32
	Duration  time.Duration

	// Fragmented is set when the file has mvex or any moof.
	Fragmented bool
	Fragments  int

	// Protection lists the DRM systems named by pssh boxes.
	Protection []string

	Tracks []Track

	// Tags, Artwork and Chapters come from iTunes metadata and chapter
	// boxes, when present.
	Tags     Tags
	Artwork  []Artwork
	Chapters []Chapter
}

// Track holds the technical properties of one trak.
type Track struct {
	ID          uint32
	Handler     string // "vide", "soun", ...
	HandlerName string
	Language    string

	Timescale uint32
	Duration  time.Duration

	Codec       string // sample entry four-character code
	CodecName   string
	Profile     string
	SampleCount uint32
	Bitrate     int // bits per second, from sample sizes

	// Video
	Width  int
	Height int

	// Audio
	SampleRate int
	Channels   int
}

// IsVideo reports whether the track carries video.
func (t Track) IsVideo() bool {
	return t.Handler == "vide"
}

// IsAudio reports whether the track carries sound.
func (t Track) IsAudio() bool {
	return t.Handler == "soun"
}

// String returns a short description of the track.
// Example output: "AAC-LC 44.1kHz stereo" or "H.264 High 1920x1080".
func (t Track) String() string {
	parts := []string{t.FullCodecName()}

	if t.Width > 0 && t.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", t.Width, t.Height))
	}
	if t.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(t.SampleRate)/1000))
	}
	parts = append(parts, channelDescription(t.Channels))
	if t.Bitrate > 0 {
		parts = append(parts, fmt.Sprintf("%dkbps", t.Bitrate/1000))
	}

	return join(parts, " ")
}

// FullCodecName returns the codec name with its profile.
func (t Track) FullCodecName() string {
	name := t.CodecName
	if name == "" {
		name = t.Codec
	}
	if t.Profile != "" && t.Profile != name {
		if strings.Contains(t.Profile, name) {
			return t.Profile
		}
		return name + " " + t.Profile
	}
	return name
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

// TrackByID returns the track with the given ID.
func (i Info) TrackByID(id uint32) (Track, bool) {
	for _, t := range i.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}
