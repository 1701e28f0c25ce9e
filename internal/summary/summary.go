// Package summary derives presentation information from a decoded box
// tree: brands, durations, tracks and codecs, iTunes tags, artwork and
// chapters.
//
// Everything here is best-effort. A box that is missing or whose payload
// failed to decode leaves the matching field at its zero value.
package summary

import (
	"math"
	"slices"
	"time"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/types"
)

// Build computes the summary of a box tree.
//
// sr is used only to read the text samples of QuickTime chapter tracks;
// it may be nil, in which case only chpl chapters are reported.
func Build(roots []*box.Box, sr *binary.SafeReader) types.Info {
	var info types.Info

	if ftyp, ok := payload[*box.FileType](box.FindFirst(roots, "ftyp")); ok {
		info.MajorBrand, info.CompatibleBrands = ftyp.Brands()
	}

	moov := box.FindFirst(roots, "moov")
	if mvhd, ok := payload[*box.MovieHeader](box.FindFirst(roots, "moov/mvhd")); ok {
		info.Timescale = mvhd.Timescale
		if !unknownDuration(mvhd.Duration) {
			info.Duration = ticks(mvhd.Duration, mvhd.Timescale)
		}
	}

	moofs := fragments(roots)
	info.Fragments = len(moofs)
	info.Fragmented = len(moofs) > 0 || box.FindFirst(roots, "moov/mvex") != nil
	if info.Duration == 0 {
		if mehd, ok := payload[*box.MovieExtendsHeader](box.FindFirst(roots, "moov/mvex/mehd")); ok {
			info.Duration = ticks(mehd.FragmentDuration, info.Timescale)
		}
	}

	info.Protection = protectionSystems(roots)

	if moov != nil {
		trex := trackExtends(moov)
		for _, trak := range moov.ChildrenOf(trakType) {
			info.Tracks = append(info.Tracks, buildTrack(trak, moofs, trex))
		}
		if info.Duration == 0 {
			for _, t := range info.Tracks {
				info.Duration = max(info.Duration, t.Duration)
			}
		}

		info.Tags, info.Artwork = buildTags(moov)
		info.Chapters = buildChapters(moov, sr, info.Duration)
	}

	return info
}

var (
	trakType = box.MustFourCC("trak")
	moofType = box.MustFourCC("moof")
	psshType = box.MustFourCC("pssh")
)

// payload returns the payload of b as T. It reports false when b is nil
// or its payload has another type, which includes the nil payload left by
// a failed decode.
func payload[T any](b *box.Box) (T, bool) {
	var zero T
	if b == nil {
		return zero, false
	}
	v, ok := b.Payload.(T)
	return v, ok
}

// unknownDuration reports the all-ones value that writers use for an
// unknown duration, in either field width.
func unknownDuration(d uint64) bool {
	return d == math.MaxUint32 || d == math.MaxUint64
}

// ticks converts a duration in timescale units to a time.Duration,
// saturating rather than overflowing.
func ticks(n uint64, timescale uint32) time.Duration {
	if timescale == 0 {
		return 0
	}
	ts := uint64(timescale)
	secs, rem := n/ts, n%ts
	if secs > math.MaxInt64/uint64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs)*time.Second + time.Duration(rem*uint64(time.Second)/ts)
}

// fragments returns the top-level movie fragments in file order.
func fragments(roots []*box.Box) []*box.Box {
	var moofs []*box.Box
	for _, b := range roots {
		if b.Type == moofType {
			moofs = append(moofs, b)
		}
	}
	return moofs
}

// protectionSystems names the DRM systems of every pssh in the tree, in
// first-seen order.
func protectionSystems(roots []*box.Box) []string {
	var names []string
	box.Walk(roots, func(b *box.Box, _ int) bool {
		if b.Type != psshType {
			return true
		}
		if pssh, ok := payload[*box.ProtectionSystemHeader](b); ok {
			if name := pssh.SystemName(); !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
		return true
	})
	return names
}
