package summary

import (
	"encoding/binary"
	"time"
	"unicode/utf16"

	isobinary "github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/types"
)

const (
	// maxChapters bounds the sample walk of a chapter text track.
	maxChapters = 1 << 16

	// maxTitleSample is the largest text sample read as a chapter title.
	maxTitleSample = 16 << 10
)

// buildChapters prefers a QuickTime chapter track and falls back to the
// Nero chpl list.
func buildChapters(moov *box.Box, sr *isobinary.SafeReader, total time.Duration) []types.Chapter {
	var chapters []types.Chapter
	if sr != nil {
		chapters = textTrackChapters(moov, sr)
	}
	if len(chapters) == 0 {
		chapters = neroChapters(moov)
	}
	if len(chapters) == 0 {
		return nil
	}
	types.CloseChapters(chapters, total)
	return chapters
}

// neroChapters reads moov/udta/chpl. Start times are in 100 ns units.
func neroChapters(moov *box.Box) []types.Chapter {
	chpl, ok := payload[*box.ChapterList](box.FindFirst([]*box.Box{moov}, "moov/udta/chpl"))
	if !ok {
		return nil
	}
	chapters := make([]types.Chapter, 0, len(chpl.Chapters))
	for _, c := range chpl.Chapters {
		start := time.Duration(min(c.Start, uint64(1<<63-1)/100) * 100)
		chapters = append(chapters, types.Chapter{Title: c.Title, StartTime: start})
	}
	return chapters
}

// chapterTrackID returns the first track ID named by a tref/chap box.
func chapterTrackID(moov *box.Box) uint32 {
	for _, trak := range moov.ChildrenOf(trakType) {
		ref, ok := payload[*box.TrackReferenceType](box.FindFirst([]*box.Box{trak}, "trak/tref/chap"))
		if ok && len(ref.TrackIDs) > 0 {
			return ref.TrackIDs[0]
		}
	}
	return 0
}

func trackByID(moov *box.Box, id uint32) *box.Box {
	for _, trak := range moov.ChildrenOf(trakType) {
		if tkhd, ok := payload[*box.TrackHeader](trak.Child(box.MustFourCC("tkhd"))); ok && tkhd.TrackID == id {
			return trak
		}
	}
	return nil
}

// textTrackChapters reads the titles of the text track that another track
// references as its chapter track. Each sample is one chapter; its start
// comes from stts and its bytes are located through stsc, stco/co64 and
// stsz.
func textTrackChapters(moov *box.Box, sr *isobinary.SafeReader) []types.Chapter {
	id := chapterTrackID(moov)
	if id == 0 {
		return nil
	}
	trak := trackByID(moov, id)
	if trak == nil {
		return nil
	}

	roots := []*box.Box{trak}
	mdhd, ok := payload[*box.MediaHeader](box.FindFirst(roots, "trak/mdia/mdhd"))
	if !ok || mdhd.Timescale == 0 {
		return nil
	}
	stbl := box.FindFirst(roots, "trak/mdia/minf/stbl")
	if stbl == nil {
		return nil
	}

	starts := sampleStarts(stbl, mdhd.Timescale)
	offsets := sampleOffsets(stbl, len(starts))
	stsz, _ := payload[*box.SampleSize](stbl.Child(box.MustFourCC("stsz")))

	chapters := make([]types.Chapter, 0, len(offsets))
	for i, off := range offsets {
		size := uint32(0)
		if stsz != nil {
			size = stsz.Size(uint32(i + 1))
		}
		if size < 2 || size > maxTitleSample {
			continue
		}
		chapters = append(chapters, types.Chapter{
			Title:     readTitle(sr, int64(off), size),
			StartTime: starts[i],
		})
	}
	return chapters
}

// sampleStarts expands stts into one start time per sample.
func sampleStarts(stbl *box.Box, timescale uint32) []time.Duration {
	stts, ok := payload[*box.TimeToSample](stbl.Child(box.MustFourCC("stts")))
	if !ok {
		return nil
	}
	var (
		starts []time.Duration
		t      uint64
	)
	for _, e := range stts.Entries {
		for range e.SampleCount {
			if len(starts) == maxChapters {
				return starts
			}
			starts = append(starts, ticks(t, timescale))
			t += uint64(e.SampleDelta)
		}
	}
	return starts
}

// sampleOffsets returns the file offsets of the first n samples.
func sampleOffsets(stbl *box.Box, n int) []uint64 {
	var chunks []uint64
	if stco, ok := payload[*box.ChunkOffset](stbl.Child(box.MustFourCC("stco"))); ok {
		chunks = stco.Offsets
	} else if co64, ok := payload[*box.ChunkOffset](stbl.Child(box.MustFourCC("co64"))); ok {
		chunks = co64.Offsets
	}
	stsc, ok := payload[*box.SampleToChunk](stbl.Child(box.MustFourCC("stsc")))
	stsz, ok2 := payload[*box.SampleSize](stbl.Child(box.MustFourCC("stsz")))
	if !ok || !ok2 || len(chunks) == 0 {
		return nil
	}

	offsets := make([]uint64, 0, n)
	sample := uint32(1)
	for i, e := range stsc.Entries {
		last := uint32(len(chunks))
		if i+1 < len(stsc.Entries) {
			last = min(last, stsc.Entries[i+1].FirstChunk-1)
		}
		for chunk := e.FirstChunk; chunk >= 1 && chunk <= last; chunk++ {
			off := chunks[chunk-1]
			for range e.SamplesPerChunk {
				if len(offsets) == n {
					return offsets
				}
				offsets = append(offsets, off)
				off += uint64(stsz.Size(sample))
				sample++
			}
		}
	}
	return offsets
}

// readTitle decodes a text sample: a 16-bit length, then UTF-8 text or
// UTF-16 text with a byte order mark.
func readTitle(sr *isobinary.SafeReader, off int64, size uint32) string {
	buf := make([]byte, size)
	if err := sr.ReadAt(buf, off, "chapter title"); err != nil {
		return ""
	}
	n := int(binary.BigEndian.Uint16(buf))
	if n == 0 || n > len(buf)-2 {
		return ""
	}
	text := buf[2 : 2+n]

	if len(text) >= 2 && (text[0] == 0xfe && text[1] == 0xff || text[0] == 0xff && text[1] == 0xfe) {
		order := binary.ByteOrder(binary.BigEndian)
		if text[0] == 0xff {
			order = binary.LittleEndian
		}
		u := make([]uint16, (len(text)-2)/2)
		for i := range u {
			u[i] = order.Uint16(text[2+2*i:])
		}
		return string(utf16.Decode(u))
	}
	return string(text)
}
