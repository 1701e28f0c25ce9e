package decode

import (
	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/registry"
)

// iTunes metadata items. Each item is a container of one or more data
// boxes; the item type names the field.
var metadataItems = []string{
	"©nam", "©ART", "aART", "©alb", "©gen", "gnre", "©cmt", "©wrt", "©day",
	"©too", "©grp", "©lyr", "©nrt", "©pub", "desc", "ldes", "cprt", "trkn",
	"disk", "cpil", "tmpo", "covr", "stik", "pgap", "purd", "sonm", "soar",
	"soal",
}

var trackReferenceTypes = []string{
	"chap", "hint", "cdsc", "sync", "font", "forc", "hind", "vdep", "vplx",
	"subt", "mpod", "ipir", "dpnd",
}

func init() {
	container("tref", box.KindTrackReference)
	for _, code := range trackReferenceTypes {
		register(code, registry.Entry{Kind: box.KindTrackReferenceType, Decode: decodeTrackReferenceType})
	}

	register("meta", registry.Entry{Kind: box.KindMeta, Full: true, Container: true})
	container("ilst", box.KindItemList)
	for _, code := range metadataItems {
		container(code, box.KindMetadataItem)
	}
	register("data", registry.Entry{Kind: box.KindItemData, Full: true, Decode: decodeItemData})
	register("chpl", registry.Entry{Kind: box.KindChapterList, Full: true, Decode: decodeChapterList})
}

func decodeTrackReferenceType(r *binary.ChainReader, _ *box.Header) (any, error) {
	p := &box.TrackReferenceType{}
	p.TrackIDs = make([]uint32, 0, r.Remaining()/4)
	for r.Error() == nil && r.Remaining() >= 4 {
		p.TrackIDs = append(p.TrackIDs, binary.ReadChained[uint32](r, "track id"))
	}
	return finish(r, p)
}

// decodeItemData reads an ilst data box. The well-known type lives in the
// flags.
func decodeItemData(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.ItemData{
		DataType: h.Flags,
		Locale:   binary.ReadChained[uint32](r, "locale"),
	}
	p.Value = r.Rest("value")
	return finish(r, p)
}

func decodeChapterList(r *binary.ChainReader, h *box.Header) (any, error) {
	p := &box.ChapterList{}
	if h.Version > 0 {
		p.Reserved = binary.ReadChained[uint32](r, "reserved")
	}
	p.Count = binary.ReadChained[uint8](r, "chapter count")

	p.Chapters = make([]box.ChapterListEntry, 0, capacity(r, uint32(p.Count), 9))
	for i := uint8(0); i < p.Count && r.Error() == nil; i++ {
		e := box.ChapterListEntry{Start: binary.ReadChained[uint64](r, "chapter start")}
		n := binary.ReadChained[uint8](r, "chapter title length")
		e.Title = r.String(int(n), "chapter title")
		p.Chapters = append(p.Chapters, e)
	}
	return finish(r, p)
}
