package summary

import (
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/types"
)

// trackExtends indexes the mvex/trex defaults by track ID.
func trackExtends(moov *box.Box) map[uint32]*box.TrackExtends {
	trex := make(map[uint32]*box.TrackExtends)
	if mvex := moov.Child(box.MustFourCC("mvex")); mvex != nil {
		for _, b := range mvex.ChildrenOf(box.MustFourCC("trex")) {
			if t, ok := payload[*box.TrackExtends](b); ok {
				trex[t.TrackID] = t
			}
		}
	}
	return trex
}

func buildTrack(trak *box.Box, moofs []*box.Box, trex map[uint32]*box.TrackExtends) types.Track {
	var t types.Track
	roots := []*box.Box{trak}

	if tkhd, ok := payload[*box.TrackHeader](box.FindFirst(roots, "trak/tkhd")); ok {
		t.ID = tkhd.TrackID
		t.Width = int(tkhd.Width >> 16)
		t.Height = int(tkhd.Height >> 16)
	}

	if mdhd, ok := payload[*box.MediaHeader](box.FindFirst(roots, "trak/mdia/mdhd")); ok {
		t.Timescale = mdhd.Timescale
		t.Language = mdhd.Language
		if !unknownDuration(mdhd.Duration) {
			t.Duration = ticks(mdhd.Duration, mdhd.Timescale)
		}
	}

	if hdlr, ok := payload[*box.Handler](box.FindFirst(roots, "trak/mdia/hdlr")); ok {
		t.Handler = hdlr.HandlerType.String()
		t.HandlerName = hdlr.Name
	}

	stbl := box.FindFirst(roots, "trak/mdia/minf/stbl")
	if stsd := box.FindFirst(roots, "trak/mdia/minf/stbl/stsd"); stsd != nil && len(stsd.Children) > 0 {
		describeEntry(&t, stsd.Children[0])
	}

	var totalBytes uint64
	if stbl != nil {
		t.SampleCount, totalBytes = sampleTotals(stbl)
		if stts, ok := payload[*box.TimeToSample](stbl.Child(box.MustFourCC("stts"))); ok && t.Duration == 0 {
			t.Duration = ticks(durationOf(stts), t.Timescale)
		}
	}

	frag := fragmentTotals(t.ID, moofs, trex[t.ID])
	t.SampleCount += frag.samples
	totalBytes += frag.bytes
	if t.Duration == 0 {
		t.Duration = ticks(frag.duration, t.Timescale)
	}

	if seconds := t.Duration.Seconds(); seconds > 0 && totalBytes > 0 {
		t.Bitrate = int(float64(totalBytes) * 8 / seconds)
	}

	return t
}

// describeEntry fills the codec fields from the first sample entry.
func describeEntry(t *types.Track, entry *box.Box) {
	t.Codec = entry.Type.String()
	t.CodecName = codecName(t.Codec)

	switch p := entry.Payload.(type) {
	case *box.AudioSampleEntry:
		t.SampleRate = int(p.SampleRate)
		t.Channels = int(p.ChannelCount)
	case *box.VisualSampleEntry:
		t.Width = int(p.Width)
		t.Height = int(p.Height)
	}

	if esds, ok := payload[*box.ESDescriptor](entry.Child(box.MustFourCC("esds"))); ok {
		if cfg, ok := parseESDescriptor(esds.Descriptor); ok {
			t.Profile = aacProfile(cfg.objectType)
			if t.Bitrate == 0 {
				t.Bitrate = int(cfg.avgBitrate)
			}
		}
	}
	if avcC, ok := payload[*box.AVCConfiguration](entry.Child(box.MustFourCC("avcC"))); ok {
		t.Profile = avcProfile(avcC.Profile, avcC.Level)
	}
}

// sampleTotals counts samples and their bytes from stsz or stz2.
func sampleTotals(stbl *box.Box) (count uint32, size uint64) {
	if stsz, ok := payload[*box.SampleSize](stbl.Child(box.MustFourCC("stsz"))); ok {
		if stsz.SampleSize != 0 {
			return stsz.SampleCount, uint64(stsz.SampleSize) * uint64(stsz.SampleCount)
		}
		for _, s := range stsz.EntrySizes {
			size += uint64(s)
		}
		return stsz.SampleCount, size
	}
	if stz2, ok := payload[*box.CompactSampleSize](stbl.Child(box.MustFourCC("stz2"))); ok {
		for _, s := range stz2.EntrySizes {
			size += uint64(s)
		}
		return stz2.SampleCount, size
	}
	return 0, 0
}

type fragmentTotal struct {
	samples  uint32
	bytes    uint64
	duration uint64
}

// fragmentTotals sums the runs of one track across all movie fragments.
// Sample durations and sizes fall back from the run to tfhd and then to
// trex, in that order.
func fragmentTotals(trackID uint32, moofs []*box.Box, trex *box.TrackExtends) fragmentTotal {
	var total fragmentTotal
	for _, moof := range moofs {
		for _, traf := range moof.ChildrenOf(box.MustFourCC("traf")) {
			tfhdBox := traf.Child(box.MustFourCC("tfhd"))
			tfhd, ok := payload[*box.TrackFragmentHeader](tfhdBox)
			if !ok || tfhd.TrackID != trackID {
				continue
			}

			defaultDuration, defaultSize := uint32(0), uint32(0)
			if trex != nil {
				defaultDuration, defaultSize = trex.DefaultSampleDuration, trex.DefaultSampleSize
			}
			if tfhdBox.HasFlag(box.TfhdDefaultSampleDuration) {
				defaultDuration = tfhd.DefaultSampleDuration
			}
			if tfhdBox.HasFlag(box.TfhdDefaultSampleSize) {
				defaultSize = tfhd.DefaultSampleSize
			}

			for _, trunBox := range traf.ChildrenOf(box.MustFourCC("trun")) {
				trun, ok := payload[*box.TrackRun](trunBox)
				if !ok {
					continue
				}
				total.samples += trun.SampleCount
				if len(trun.Samples) == 0 {
					total.duration += uint64(trun.SampleCount) * uint64(defaultDuration)
					total.bytes += uint64(trun.SampleCount) * uint64(defaultSize)
					continue
				}
				for _, s := range trun.Samples {
					duration, size := defaultDuration, defaultSize
					if trunBox.HasFlag(box.TrunSampleDuration) {
						duration = s.Duration
					}
					if trunBox.HasFlag(box.TrunSampleSize) {
						size = s.Size
					}
					total.duration += uint64(duration)
					total.bytes += uint64(size)
				}
			}
		}
	}
	return total
}

// durationOf is the sum of an stts table in timescale units.
func durationOf(stts *box.TimeToSample) uint64 {
	var sum uint64
	for _, e := range stts.Entries {
		sum += uint64(e.SampleCount) * uint64(e.SampleDelta)
	}
	return sum
}
