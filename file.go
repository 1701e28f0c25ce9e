package isobmff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	_ "github.com/simonhull/isobmff/internal/decode" // registers the box decoders
	"github.com/simonhull/isobmff/internal/dump"
	"github.com/simonhull/isobmff/internal/registry"
	"github.com/simonhull/isobmff/internal/source"
	"github.com/simonhull/isobmff/internal/summary"
	"github.com/simonhull/isobmff/internal/types"
	"github.com/simonhull/isobmff/internal/walker"
)

// File is a parsed ISO base media file.
//
// Boxes holds the decoded tree in file order. Payloads are decoded during
// the parse; media data is never read.
//
// Always call Close() when done to release the source:
//
//	file, err := isobmff.Open("movie.mp4")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	// Path or URL the file was opened from
	Path string

	// Source size in bytes
	Size int64

	// Format announced by the first box
	Format Format

	// Top-level boxes
	Boxes []*Box

	// Warnings encountered during parsing (non-fatal issues)
	Warnings []Warning

	sr     *binary.SafeReader
	closer io.Closer
	info   func() Info
}

// Open opens and parses a local file.
//
// A corrupted file yields a partial tree with warnings unless
// WithStrictParsing is given. Open fails with *UnsupportedFormatError when
// no box structure is found: the format is not recognized and the first box
// is neither a known type nor fits in the file.
func Open(path string, opts ...Option) (*File, error) {
	return OpenContext(context.Background(), path, opts...)
}

// OpenContext is Open with a context that can cancel the parse between
// boxes.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	options := applyOptions(opts)

	src, err := source.OpenFile(path)
	if err != nil {
		return nil, err
	}

	file, err := parse(ctx, src, src.Size(), path, options)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	file.closer = src
	return file, nil
}

// OpenURL parses a remote file over HTTP(S) using range requests. The
// server must answer range requests with 206 Partial Content.
//
// ctx also bounds the requests File.Info makes to read chapter titles.
//
//	file, err := isobmff.OpenURL(ctx, "https://cdn.example.com/movie.mp4",
//	    isobmff.WithDigestAuth("viewer", "secret"),
//	)
func OpenURL(ctx context.Context, url string, opts ...Option) (*File, error) {
	options := applyOptions(opts)

	src, err := source.OpenHTTP(ctx, url, source.HTTPOptions{
		Client:      options.httpClient,
		Username:    options.username,
		Password:    options.password,
		BlockSize:   options.blockSize,
		CacheBlocks: options.cacheBlocks,
		Logger:      options.logger,
	})
	if err != nil {
		return nil, err
	}
	return parse(ctx, src, src.Size(), url, options)
}

// Parse parses size bytes from r. The File keeps r for File.Info; Close
// does not close it.
func Parse(ctx context.Context, r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	return parse(ctx, r, size, "", applyOptions(opts))
}

// AsyncResult is the outcome of ParseAsync.
type AsyncResult struct {
	File *File
	Err  error
}

// ParseAsync runs Parse on a new goroutine. The returned channel receives
// exactly one result and is then closed.
func ParseAsync(ctx context.Context, r io.ReaderAt, size int64, opts ...Option) <-chan AsyncResult {
	ch := make(chan AsyncResult, 1)
	go func() {
		defer close(ch)
		file, err := Parse(ctx, r, size, opts...)
		ch <- AsyncResult{File: file, Err: err}
	}()
	return ch
}

func applyOptions(opts []Option) *openOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func parse(ctx context.Context, r io.ReaderAt, size int64, path string, options *openOptions) (*File, error) {
	start, end := options.start, options.end
	if end == 0 || end > size {
		end = size
	}
	if start > end {
		return nil, fmt.Errorf("range start %d beyond end %d", start, end)
	}

	// Detection only names the format. Whether there is a box tree at all
	// is up to the walk.
	format, detectErr := DetectFormat(io.NewSectionReader(r, start, end-start), end-start, path)

	sr := binary.NewSafeReader(r, size, path)
	res, err := walker.Walk(ctx, sr, start, end, options.walkerOptions())
	if detectErr != nil && !plausible(res.Boxes, end) {
		return nil, detectErr
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}
	if len(res.Boxes) == 0 {
		return nil, &UnsupportedFormatError{Path: path, Reason: "no boxes"}
	}
	if format == FormatUnknown {
		format = brandFormat(res.Boxes)
	}

	file := &File{
		Path:     path,
		Size:     size,
		Format:   format,
		Boxes:    res.Boxes,
		Warnings: res.Warnings,
		sr:       sr,
	}
	file.info = sync.OnceValue(func() Info {
		return summary.Build(file.Boxes, file.sr)
	})

	if options.ignoreWarnings {
		file.Warnings = nil
	}

	options.logger.Debug("parsed",
		"path", path,
		"format", format,
		"boxes", res.Count,
		"warnings", len(res.Warnings))

	return file, nil
}

// plausible reports whether a walk found box structure: a first box of a
// registered type, or one whose declared size fits the range.
func plausible(boxes []*Box, end int64) bool {
	if len(boxes) == 0 {
		return false
	}
	first := boxes[0]
	if _, ok := registry.Lookup(first.Type); ok {
		return true
	}
	return first.EffectiveSize() >= first.HeaderLen && first.End() <= uint64(end)
}

// brandFormat names the format from a decoded ftyp or styp when the first
// header alone was not enough.
func brandFormat(boxes []*Box) Format {
	for _, b := range boxes {
		if ft, ok := b.Payload.(*box.FileType); ok && ft != nil && ft.MajorBrand != 0 {
			return types.FormatFromBrands(ft.Brands())
		}
	}
	return FormatUnknown
}

// Close releases the source opened by Open.
//
// After Close is called, the File should not be used.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// Find returns every box matching a slash-separated type path rooted at
// the top level. "*" matches any type:
//
//	for _, mdhd := range file.Find("moov/trak/mdia/mdhd") { ... }
func (f *File) Find(path string) []*Box {
	return box.Find(f.Boxes, path)
}

// FindFirst returns the first match of path, or nil.
func (f *File) FindFirst(path string) *Box {
	return box.FindFirst(f.Boxes, path)
}

// Walk visits every box depth-first in file order. Returning false skips
// the children of the box just visited.
func (f *File) Walk(fn func(b *Box, depth int) bool) {
	box.Walk(f.Boxes, fn)
}

// Info returns the presentation summary: brands, duration, tracks, tags,
// artwork and chapters. It is computed on first use and cached; reading
// chapter titles from a text track needs the source to be open.
func (f *File) Info() Info {
	if f.info == nil {
		return summary.Build(f.Boxes, f.sr)
	}
	return f.info()
}

// Dump writes the box tree as text or JSON.
func (f *File) Dump(w io.Writer, opts DumpOptions) error {
	return dump.Write(w, f.Boxes, opts)
}

// OpenMany opens multiple files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
//	files, err := isobmff.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	return OpenManyWith(ctx, paths, nil)
}

// OpenManyWith is OpenMany with options applied to every file.
func OpenManyWith(ctx context.Context, paths []string, opts []Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			file, err := OpenContext(ctx, path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var errs []error
		for _, file := range results {
			if file != nil {
				errs = append(errs, file.Close())
			}
		}
		return nil, errors.Join(append([]error{err}, errs...)...)
	}

	return results, nil
}
