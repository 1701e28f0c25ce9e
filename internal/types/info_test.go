package types

import (
	"testing"
)

func TestChannelDescription(t *testing.T) {
	tests := []struct {
		channels int
		want     string
	}{
		{0, ""},
		{1, "mono"},
		{2, "stereo"},
		{4, "quad"},
		{6, "5.1"},
		{8, "7.1"},
		{3, "3ch"},
	}

	for _, tc := range tests {
		if got := channelDescription(tc.channels); got != tc.want {
			t.Errorf("channelDescription(%d) = %q, want %q", tc.channels, got, tc.want)
		}
	}
}

func TestTrack_String(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  string
	}{
		{
			name: "audio",
			track: Track{
				Handler:    "soun",
				Codec:      "mp4a",
				CodecName:  "AAC",
				Profile:    "AAC-LC",
				SampleRate: 44100,
				Channels:   2,
				Bitrate:    128000,
			},
			want: "AAC-LC 44.1kHz stereo 128kbps",
		},
		{
			name: "video",
			track: Track{
				Handler:   "vide",
				Codec:     "avc1",
				CodecName: "H.264",
				Profile:   "High",
				Width:     1920,
				Height:    1080,
			},
			want: "H.264 High 1920x1080",
		},
		{
			name:  "unknown codec",
			track: Track{Codec: "zzzz"},
			want:  "zzzz",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.track.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTrack_Handlers(t *testing.T) {
	if !(Track{Handler: "vide"}).IsVideo() {
		t.Error("vide track should be video")
	}
	if !(Track{Handler: "soun"}).IsAudio() {
		t.Error("soun track should be audio")
	}
	if (Track{Handler: "hint"}).IsAudio() {
		t.Error("hint track should not be audio")
	}
}

func TestInfo_TrackByID(t *testing.T) {
	info := Info{Tracks: []Track{{ID: 1, Codec: "avc1"}, {ID: 2, Codec: "mp4a"}}}

	track, ok := info.TrackByID(2)
	if !ok || track.Codec != "mp4a" {
		t.Errorf("TrackByID(2) = %+v, %v", track, ok)
	}
	if _, ok := info.TrackByID(3); ok {
		t.Error("TrackByID(3) should not find a track")
	}
}
