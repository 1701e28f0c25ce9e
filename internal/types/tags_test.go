package types

import (
	"slices"
	"testing"
	"time"
)

func TestTags_All(t *testing.T) {
	tags := &Tags{}
	tags.Set("©nam", "Test Song")
	tags.Set("©ART", "Test Artist")
	tags.Set("©gen", "Rock", "Alternative")

	var keys []string
	for key, values := range tags.All() {
		keys = append(keys, key)
		if key == "©gen" && !slices.Equal(values, []string{"Rock", "Alternative"}) {
			t.Errorf("©gen values = %v, want [Rock Alternative]", values)
		}
	}

	want := []string{"©ART", "©gen", "©nam"}
	if !slices.Equal(keys, want) {
		t.Errorf("All() keys = %v, want %v", keys, want)
	}
}

func TestTags_All_Empty(t *testing.T) {
	tags := &Tags{}
	for key := range tags.All() {
		t.Errorf("All() on empty tags yielded %q", key)
	}
	if !tags.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
}

func TestTags_Get(t *testing.T) {
	tags := &Tags{}
	tags.Set("©ART", "Test Artist")
	tags.Add("©gen", "Rock")
	tags.Add("©gen", "Pop")

	tests := []struct {
		key  string
		want []string
	}{
		{"©ART", []string{"Test Artist"}},
		{"©gen", []string{"Rock", "Pop"}},
		{"©nam", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := tags.Get(tt.key); !slices.Equal(got, tt.want) {
				t.Errorf("Get(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}

	got := tags.Get("©gen")
	got[0] = "Jazz"
	if tags.GetFirst("©gen") != "Rock" {
		t.Error("Get() returned a slice sharing storage with the tags")
	}
}

func TestTags_GetBest(t *testing.T) {
	tags := &Tags{}
	tags.Set("©ART", "Track Artist")

	if got := tags.GetBest("aART", "©ART"); got != "Track Artist" {
		t.Errorf("GetBest() = %q, want %q", got, "Track Artist")
	}
	if got := tags.GetBest("aART", "soar"); got != "" {
		t.Errorf("GetBest() = %q, want empty", got)
	}
}

func TestTags_SetRemoves(t *testing.T) {
	tags := &Tags{}
	tags.Set("©cmt", "hello")
	tags.Set("©cmt")
	if got := tags.Get("©cmt"); got != nil {
		t.Errorf("Get() after removal = %v, want nil", got)
	}
}

func TestTags_Clone(t *testing.T) {
	tags := &Tags{Title: "Original", TrackNumber: 3}
	tags.Set("©nam", "Original")

	clone := tags.Clone()
	clone.Title = "Changed"
	clone.Set("©nam", "Changed")

	if tags.Title != "Original" || tags.GetFirst("©nam") != "Original" {
		t.Error("modifying the clone changed the original")
	}
	if clone.TrackNumber != 3 {
		t.Errorf("clone TrackNumber = %d, want 3", clone.TrackNumber)
	}

	var nilTags *Tags
	if nilTags.Clone() != nil {
		t.Error("Clone() of nil tags should be nil")
	}
}

func TestTags_String(t *testing.T) {
	tests := []struct {
		tags Tags
		want string
	}{
		{Tags{Artist: "Artist", Title: "Song"}, "Artist - Song"},
		{Tags{AlbumArtist: "Band", Title: "Song"}, "Band - Song"},
		{Tags{Title: "Song"}, "Song"},
		{Tags{}, ""},
	}

	for _, tt := range tests {
		if got := tt.tags.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestArtwork(t *testing.T) {
	jpeg := append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 2044)...)

	if got := SniffImage(jpeg); got != "image/jpeg" {
		t.Errorf("SniffImage(jpeg) = %q", got)
	}
	if got := SniffImage([]byte("\x89PNG\r\n\x1a\n")); got != "image/png" {
		t.Errorf("SniffImage(png) = %q", got)
	}
	if got := SniffImage([]byte("GIF8")); got != "" {
		t.Errorf("SniffImage(gif) = %q, want empty", got)
	}

	art := Artwork{MIMEType: "image/jpeg", Data: jpeg}
	if got := art.String(); got != "JPEG, 2.0 KiB" {
		t.Errorf("String() = %q", got)
	}
	if got := art.Extension(); got != ".jpg" {
		t.Errorf("Extension() = %q", got)
	}
}

func TestCloseChapters(t *testing.T) {
	chapters := []Chapter{
		{Title: "One", StartTime: 0},
		{Title: "Two", StartTime: time.Minute},
		{Title: "Three", StartTime: 2 * time.Minute},
	}

	CloseChapters(chapters, 3*time.Minute)

	for i, want := range []time.Duration{time.Minute, 2 * time.Minute, 3 * time.Minute} {
		if chapters[i].Index != i+1 {
			t.Errorf("chapter %d Index = %d", i, chapters[i].Index)
		}
		if chapters[i].EndTime != want {
			t.Errorf("chapter %d EndTime = %v, want %v", i, chapters[i].EndTime, want)
		}
	}

	last := []Chapter{{StartTime: time.Hour}}
	CloseChapters(last, 0)
	if last[0].EndTime != time.Hour {
		t.Errorf("EndTime without total = %v, want %v", last[0].EndTime, time.Hour)
	}
}
