// Package isobmff decodes ISO base media files (MP4, M4A/M4B, MOV, 3GP,
// CMAF segments, HEIF) into a tree of typed boxes.
//
// Every box keeps its header (size, type, offset, version and flags) and,
// for the types the package knows, a decoded payload: movie and track
// headers, sample tables, fragment tables, codec configuration records,
// protection boxes and iTunes metadata. Unknown types stay in the tree
// with their header only.
//
// # Quick Start
//
//	file, err := isobmff.Open("movie.mp4")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	for _, b := range file.Find("moov/trak/mdia/mdhd") {
//		mdhd := b.Payload.(*isobmff.MediaHeader)
//		fmt.Println(mdhd.Timescale, mdhd.Duration, mdhd.Language)
//	}
//
// File.Info summarises the tree the way a media player would describe it:
//
//	info := file.Info()
//	fmt.Println(info.Duration)
//	for _, t := range info.Tracks {
//		fmt.Println(t) // "H.264 High@4.0 1920x1080 4810kbps"
//	}
//
// # Sources
//
// Open reads a local file, Parse any io.ReaderAt, and OpenURL a remote
// file through HTTP range requests with an in-memory block cache:
//
//	file, err := isobmff.OpenURL(ctx, "https://cdn.example.com/movie.mp4")
//
// OpenMany parses many local files concurrently and ParseAsync parses on
// a background goroutine.
//
// # Error Handling
//
// By default parsing is lenient. A box whose payload cannot be decoded
// stays in the tree with its header and a zero payload, a Warning is
// recorded, and the walk continues with the next box:
//
//	for _, w := range file.Warnings {
//		log.Printf("warning: %s", w)
//	}
//
// WithStrictParsing turns the first problem into an error instead. Errors
// and warnings carry typed causes (*MalformedBoxError, *OutOfRangeError,
// *LimitError) for errors.As.
//
// # Configuration
//
// Options can be given in code or loaded from YAML:
//
//	cfg, err := isobmff.LoadConfig("isobmff.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	file, err := isobmff.Open("movie.mp4", isobmff.WithConfig(cfg))
package isobmff
