package types

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Tags holds the iTunes metadata items found under moov/udta/meta/ilst.
//
// Well-known items are mapped to fields. Every text item is also kept in
// a raw map keyed by its four-character code ("©nam", "aART", ...), which
// All and Get expose.
type Tags struct {
	raw map[string][]string

	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Composer    string
	Comment     string
	Description string
	Date        string
	Encoder     string
	Grouping    string
	Lyrics      string
	Narrator    string
	Publisher   string
	Copyright   string

	// Sort order overrides (sonm, soar, soal).
	SortTitle  string
	SortArtist string
	SortAlbum  string

	TrackNumber int
	TrackTotal  int
	DiscNumber  int
	DiscTotal   int
	Tempo       int

	Compilation bool
	Gapless     bool
}

// IsEmpty reports whether no item was collected.
func (t *Tags) IsEmpty() bool {
	return len(t.raw) == 0 && t.TrackNumber == 0 && t.DiscNumber == 0 && t.Tempo == 0 &&
		!t.Compilation && !t.Gapless
}

// All returns an iterator over the raw items in key order.
//
//	for key, values := range info.Tags.All() {
//		fmt.Printf("%s: %v\n", key, values)
//	}
//
// Do not modify the yielded slices.
func (t *Tags) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, key := range slices.Sorted(maps.Keys(t.raw)) {
			if !yield(key, t.raw[key]) {
				return
			}
		}
	}
}

// Get returns a copy of all values of a raw item, or nil.
func (t *Tags) Get(key string) []string {
	return slices.Clone(t.raw[key])
}

// GetFirst returns the first value of a raw item, or "".
func (t *Tags) GetFirst(key string) string {
	if values := t.raw[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// GetBest returns the first non-empty value among the candidate keys:
//
//	artist := tags.GetBest("aART", "©ART")
func (t *Tags) GetBest(candidates ...string) string {
	for _, key := range candidates {
		if value := t.GetFirst(key); value != "" {
			return value
		}
	}
	return ""
}

// Set replaces the values of a raw item. No values removes it.
func (t *Tags) Set(key string, values ...string) {
	if len(values) == 0 {
		delete(t.raw, key)
		return
	}
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}
	t.raw[key] = slices.Clone(values)
}

// Add appends a value to a raw item.
func (t *Tags) Add(key, value string) {
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}
	t.raw[key] = append(t.raw[key], value)
}

// Clone returns a deep copy.
func (t *Tags) Clone() *Tags {
	if t == nil {
		return nil
	}
	clone := *t
	if t.raw != nil {
		clone.raw = make(map[string][]string, len(t.raw))
		for key, values := range t.raw {
			clone.raw[key] = slices.Clone(values)
		}
	}
	return &clone
}

// String returns "Artist - Title", falling back to whichever is set.
func (t *Tags) String() string {
	artist := t.Artist
	if artist == "" {
		artist = t.AlbumArtist
	}
	return join([]string{artist, strings.TrimSpace(t.Title)}, " - ")
}
