package summary

import (
	"strconv"

	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/types"
)

// itemList finds the ilst under moov/udta/meta, or moov/meta as some
// writers place it.
func itemList(moov *box.Box) *box.Box {
	roots := []*box.Box{moov}
	if ilst := box.FindFirst(roots, "moov/udta/meta/ilst"); ilst != nil {
		return ilst
	}
	return box.FindFirst(roots, "moov/meta/ilst")
}

// buildTags maps the ilst items onto Tags and collects covr images.
func buildTags(moov *box.Box) (types.Tags, []types.Artwork) {
	var (
		tags    types.Tags
		artwork []types.Artwork
	)

	ilst := itemList(moov)
	if ilst == nil {
		return tags, nil
	}

	for _, item := range ilst.Children {
		key := item.Type.String()
		for _, b := range item.ChildrenOf(box.MustFourCC("data")) {
			data, ok := payload[*box.ItemData](b)
			if !ok {
				continue
			}
			if key == "covr" {
				if art, ok := coverArt(b, data); ok {
					artwork = append(artwork, art)
				}
				continue
			}
			setItem(&tags, key, data)
		}
	}

	return tags, artwork
}

// setItem stores one data value. Text values also land in the raw map.
func setItem(tags *types.Tags, key string, data *box.ItemData) {
	switch key {
	case "trkn":
		tags.TrackNumber, tags.TrackTotal, _ = data.Pair()
		return
	case "disk":
		tags.DiscNumber, tags.DiscTotal, _ = data.Pair()
		return
	case "tmpo":
		if v, ok := data.Int(); ok {
			tags.Tempo = int(v)
		}
		return
	case "cpil":
		v, _ := data.Int()
		tags.Compilation = v != 0
		return
	case "pgap":
		v, _ := data.Int()
		tags.Gapless = v != 0
		return
	case "gnre", "stik":
		// Numeric codes; only the raw value is kept.
		if v, ok := data.Int(); ok {
			tags.Add(key, strconv.FormatInt(v, 10))
		}
		return
	}

	value := data.Text()
	if value == "" {
		return
	}
	tags.Add(key, value)

	if field := textField(tags, key); field != nil && *field == "" {
		*field = value
	}
}

// textField returns the Tags field a text item maps to, or nil.
func textField(tags *types.Tags, key string) *string {
	switch key {
	case "©nam":
		return &tags.Title
	case "©ART":
		return &tags.Artist
	case "aART":
		return &tags.AlbumArtist
	case "©alb":
		return &tags.Album
	case "©gen":
		return &tags.Genre
	case "©wrt":
		return &tags.Composer
	case "©cmt":
		return &tags.Comment
	case "desc", "ldes":
		return &tags.Description
	case "©day":
		return &tags.Date
	case "©too":
		return &tags.Encoder
	case "©grp":
		return &tags.Grouping
	case "©lyr":
		return &tags.Lyrics
	case "©nrt":
		return &tags.Narrator
	case "©pub":
		return &tags.Publisher
	case "cprt":
		return &tags.Copyright
	case "sonm":
		return &tags.SortTitle
	case "soar":
		return &tags.SortArtist
	case "soal":
		return &tags.SortAlbum
	}
	return nil
}

// coverArt turns a covr data box into Artwork. The MIME type comes from
// the data type, or from the image bytes for implicit data.
func coverArt(b *box.Box, data *box.ItemData) (types.Artwork, bool) {
	if len(data.Value) == 0 {
		return types.Artwork{}, false
	}

	var mime string
	switch data.DataType {
	case box.DataTypeJPEG:
		mime = "image/jpeg"
	case box.DataTypePNG:
		mime = "image/png"
	case box.DataTypeBMP:
		mime = "image/bmp"
	default:
		mime = types.SniffImage(data.Value)
	}
	if mime == "" {
		return types.Artwork{}, false
	}

	// The value follows the 4-byte locale.
	return types.Artwork{
		MIMEType: mime,
		Data:     data.Value,
		Offset:   int64(b.ContentOffset()) + 4,
	}, true
}
