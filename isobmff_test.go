package isobmff_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/simonhull/isobmff"
	bt "github.com/simonhull/isobmff/internal/boxtest"
)

func TestOpen(t *testing.T) {
	path := writeFile(t, "book.m4b", movie())

	file, err := isobmff.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	if file.Format != isobmff.FormatM4B {
		t.Errorf("expected FormatM4B, got %v", file.Format)
	}
	if file.Path != path {
		t.Errorf("Path = %q, want %q", file.Path, path)
	}
	if file.Size != int64(len(movie())) {
		t.Errorf("Size = %d, want %d", file.Size, len(movie()))
	}
	if len(file.Boxes) != 2 {
		t.Fatalf("expected 2 top-level boxes, got %d", len(file.Boxes))
	}
	if len(file.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", file.Warnings)
	}

	mdhd := file.FindFirst("moov/trak/mdia/mdhd")
	if mdhd == nil {
		t.Fatal("mdhd not found")
	}
	header, ok := mdhd.Payload.(*isobmff.MediaHeader)
	if !ok {
		t.Fatalf("mdhd payload is %T", mdhd.Payload)
	}
	if header.Language != "eng" || header.Timescale != 44100 {
		t.Errorf("mdhd = %+v", header)
	}

	if got := file.Find("moov/*/mdia"); len(got) != 1 {
		t.Errorf("Find(moov/*/mdia) returned %d boxes", len(got))
	}
	if file.FindFirst("moof") != nil {
		t.Error("FindFirst(moof) should be nil")
	}

	count := 0
	file.Walk(func(*isobmff.Box, int) bool {
		count++
		return true
	})
	if count != 14 {
		t.Errorf("Walk visited %d boxes, want 14", count)
	}
}

func TestOpen_Info(t *testing.T) {
	file, err := isobmff.Open(writeFile(t, "book.m4b", movie()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	info := file.Info()
	if info.MajorBrand != "M4B " {
		t.Errorf("MajorBrand = %q", info.MajorBrand)
	}
	if info.Duration != 5*time.Second {
		t.Errorf("Duration = %s, want 5s", info.Duration)
	}
	if len(info.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(info.Tracks))
	}

	track := info.Tracks[0]
	if !track.IsAudio() || track.SampleRate != 44100 || track.Channels != 2 || track.SampleCount != 2 {
		t.Errorf("track = %+v", track)
	}
	if track.Language != "eng" {
		t.Errorf("Language = %q, want eng", track.Language)
	}
}

func TestOpen_FileNotFound(t *testing.T) {
	_, err := isobmff.Open("/nonexistent/path.mp4")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "test.xyz", []byte("not a valid media file"))

	_, err := isobmff.Open(path)
	var unsupported *isobmff.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %T (%v)", err, err)
	}
}

// truncated ends with a box header that claims more bytes than remain.
func truncated() []byte {
	return bt.Cat(movie(), bt.Header(100, "free"))
}

func TestOpen_Lenient(t *testing.T) {
	file, err := isobmff.Open(writeFile(t, "broken.mp4", truncated()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	if len(file.Boxes) != 3 {
		t.Errorf("expected 3 top-level boxes, got %d", len(file.Boxes))
	}
	if len(file.Warnings) == 0 {
		t.Fatal("expected a warning for the truncated box")
	}

	var malformed *isobmff.MalformedBoxError
	if !errors.As(file.Warnings[0], &malformed) {
		t.Errorf("expected MalformedBoxError cause, got %v", file.Warnings[0].Err)
	}
}

func TestOpen_IgnoreWarnings(t *testing.T) {
	file, err := isobmff.Open(writeFile(t, "broken.mp4", truncated()), isobmff.WithIgnoreWarnings())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	if file.Warnings != nil {
		t.Errorf("expected no warnings, got %v", file.Warnings)
	}
}

func TestOpen_Strict(t *testing.T) {
	file, err := isobmff.Open(writeFile(t, "broken.mp4", truncated()), isobmff.WithStrictParsing())
	if err == nil {
		file.Close()
		t.Fatal("expected strict parsing to fail")
	}

	var malformed *isobmff.MalformedBoxError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedBoxError, got %T (%v)", err, err)
	}
	if malformed.Type != "free" {
		t.Errorf("Type = %q, want free", malformed.Type)
	}
}

func TestOpen_MaxBoxes(t *testing.T) {
	path := writeFile(t, "book.m4b", movie())

	file, err := isobmff.Open(path, isobmff.WithMaxBoxes(3))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	var limit *isobmff.LimitError
	if len(file.Warnings) == 0 || !errors.As(file.Warnings[len(file.Warnings)-1], &limit) {
		t.Fatalf("expected a LimitError warning, got %v", file.Warnings)
	}

	_, err = isobmff.Open(path, isobmff.WithMaxBoxes(3), isobmff.WithStrictParsing())
	if !errors.As(err, &limit) {
		t.Fatalf("expected LimitError, got %v", err)
	}
	if limit.Max != 3 {
		t.Errorf("Max = %d, want 3", limit.Max)
	}
}

func TestParse(t *testing.T) {
	data := movie()

	file, err := isobmff.Parse(context.Background(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if len(file.Boxes) != 2 {
		t.Errorf("expected 2 top-level boxes, got %d", len(file.Boxes))
	}
}

func TestParse_Range(t *testing.T) {
	data := movie()
	ftypSize := int64(len(bt.Ftyp("M4B ", 0, "M4B ", "isom")))

	file, err := isobmff.Parse(context.Background(), bytes.NewReader(data), int64(len(data)),
		isobmff.WithRange(ftypSize, 0))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(file.Boxes) != 1 || file.Boxes[0].Type != isobmff.MustFourCC("moov") {
		t.Fatalf("expected only moov, got %v", file.Boxes)
	}
	if file.Boxes[0].Offset != uint64(ftypSize) {
		t.Errorf("moov offset = %d, want %d", file.Boxes[0].Offset, ftypSize)
	}
	if file.Format != isobmff.FormatQuickTime {
		t.Errorf("Format = %v, want QuickTime", file.Format)
	}
}

func TestParse_Canceled(t *testing.T) {
	data := movie()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := isobmff.Parse(ctx, bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseAsync(t *testing.T) {
	data := movie()

	ch := isobmff.ParseAsync(context.Background(), bytes.NewReader(data), int64(len(data)))
	res := <-ch
	if res.Err != nil {
		t.Fatalf("ParseAsync failed: %v", res.Err)
	}
	if res.File == nil || len(res.File.Boxes) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after the result")
	}
}

func TestOpenURL(t *testing.T) {
	data := movie()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "book.m4b", time.Time{}, bytes.NewReader(data))
	}))
	defer srv.Close()

	file, err := isobmff.OpenURL(context.Background(), srv.URL+"/book.m4b",
		isobmff.WithHTTPClient(srv.Client()),
		isobmff.WithHTTPCache(64, 4),
	)
	if err != nil {
		t.Fatalf("OpenURL failed: %v", err)
	}
	defer file.Close()

	if file.Format != isobmff.FormatM4B {
		t.Errorf("Format = %v, want M4B", file.Format)
	}
	if file.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", file.Size, len(data))
	}
	if got := file.Info().Duration; got != 5*time.Second {
		t.Errorf("Duration = %s, want 5s", got)
	}
}

func TestDump(t *testing.T) {
	file, err := isobmff.Open(writeFile(t, "book.m4b", movie()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	if err := file.Dump(&buf, isobmff.DumpOptions{Fields: true}); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "ftyp @0 ") {
		t.Errorf("dump should start with ftyp, got %q", out)
	}
	if !strings.Contains(out, "Language=\"eng\"") {
		t.Errorf("dump should show the mdhd language:\n%s", out)
	}
}

func TestParse_UnknownLeadingBox(t *testing.T) {
	data := bt.Cat(bt.Box("zzzz", bt.U32(7)), movie())

	file, err := isobmff.Parse(context.Background(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(file.Boxes) != 3 {
		t.Fatalf("expected 3 top-level boxes, got %d", len(file.Boxes))
	}
	if got := file.Boxes[0]; got.Type != isobmff.MustFourCC("zzzz") || got.Kind.String() != "unknown" || len(got.Children) != 0 {
		t.Errorf("first box = %+v", got.Header)
	}
	if len(file.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", file.Warnings)
	}
	if file.Format != isobmff.FormatM4B {
		t.Errorf("Format = %v, want M4B from the ftyp brands", file.Format)
	}
	if file.FindFirst("moov/trak/mdia/mdhd") == nil {
		t.Error("boxes after the unknown box should still parse")
	}
}

func TestParse_OversizedFtyp(t *testing.T) {
	// The header claims 64 bytes; only 20 are there.
	data := bt.Cat(bt.Header(64, "ftyp"), []byte("M4B "), bt.U32(0), []byte("M4B "))

	file, err := isobmff.Parse(context.Background(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(file.Boxes) != 1 {
		t.Fatalf("expected the partial ftyp, got %d boxes", len(file.Boxes))
	}
	var malformed *isobmff.MalformedBoxError
	if len(file.Warnings) == 0 || !errors.As(file.Warnings[0], &malformed) {
		t.Fatalf("expected a MalformedBoxError warning, got %v", file.Warnings)
	}
	if file.Format != isobmff.FormatM4B {
		t.Errorf("Format = %v, want M4B", file.Format)
	}

	_, err = isobmff.Parse(context.Background(), bytes.NewReader(data), int64(len(data)), isobmff.WithStrictParsing())
	if !errors.As(err, &malformed) {
		t.Errorf("strict parse: expected MalformedBoxError, got %v", err)
	}
}

func TestParse_RangeAtTrak(t *testing.T) {
	data := movie()
	ftypSize := int64(len(bt.Ftyp("M4B ", 0, "M4B ", "isom")))
	mvhdSize := int64(len(bt.Mvhd(0, 1000, 5000)))
	trak := ftypSize + 8 + mvhdSize

	file, err := isobmff.Parse(context.Background(), bytes.NewReader(data), int64(len(data)),
		isobmff.WithRange(trak, 0))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(file.Boxes) != 1 || file.Boxes[0].Type != isobmff.MustFourCC("trak") {
		t.Fatalf("expected only trak, got %v", file.Boxes)
	}
	if file.FindFirst("trak/mdia/mdhd") == nil {
		t.Error("trak children should be decoded")
	}
	if file.Format != isobmff.FormatUnknown {
		t.Errorf("Format = %v, want Unknown", file.Format)
	}
}

func TestParse_UnsupportedWithoutPath(t *testing.T) {
	data := []byte("not a valid media file")

	_, err := isobmff.Parse(context.Background(), bytes.NewReader(data), int64(len(data)))
	var unsupported *isobmff.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %T (%v)", err, err)
	}
	if strings.HasPrefix(err.Error(), ":") {
		t.Errorf("error should not start with an empty path: %q", err)
	}
}
