package isobmff_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/simonhull/isobmff"
	bt "github.com/simonhull/isobmff/internal/boxtest"
)

// fragmented builds an initialisation segment followed by n fragments.
func fragmented(n int) []byte {
	parts := [][]byte{
		bt.Ftyp("iso6", 0, "iso6", "cmfc"),
		bt.Box("moov",
			bt.Mvhd(0, 1000, 0),
			bt.Box("mvex", bt.FullBox("trex", 0, 0, bt.U32(1), bt.U32(1), bt.U32(1024), bt.U32(0), bt.U32(0))),
		),
	}
	for i := range n {
		parts = append(parts, bt.Box("moof",
			bt.FullBox("mfhd", 0, 0, bt.U32(uint32(i+1))),
			bt.Box("traf",
				bt.FullBox("tfhd", 0, 0x020000, bt.U32(1)),
				bt.FullBox("tfdt", 1, 0, bt.U64(uint64(i)*1024*4)),
				bt.FullBox("trun", 0, 0x000201, bt.U32(4), bt.U32(0),
					bt.U32(300), bt.U32(310), bt.U32(320), bt.U32(330)),
			),
		))
	}
	return bt.Cat(parts...)
}

// BenchmarkOpen measures opening and parsing a small file.
func BenchmarkOpen(b *testing.B) {
	path := writeFile(b, "bench.m4b", movie())

	b.ReportAllocs()
	for b.Loop() {
		file, err := isobmff.Open(path)
		if err != nil {
			b.Fatal(err)
		}
		file.Close()
	}
}

// BenchmarkParse_Fragmented measures the walk over many fragments held in memory.
func BenchmarkParse_Fragmented(b *testing.B) {
	data := fragmented(500)
	ctx := context.Background()

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := isobmff.Parse(ctx, bytes.NewReader(data), int64(len(data))); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkInfo measures building the summary of a fragmented file.
func BenchmarkInfo(b *testing.B) {
	data := fragmented(500)
	file, err := isobmff.Parse(context.Background(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		info := file.Info()
		if info.Fragments != 500 {
			b.Fatalf("Fragments = %d", info.Fragments)
		}
	}
}

// BenchmarkOpenMany measures concurrent parsing.
func BenchmarkOpenMany(b *testing.B) {
	paths := make([]string, 32)
	for i := range paths {
		paths[i] = writeFile(b, "bench.m4b", movie())
	}
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		files, err := isobmff.OpenMany(ctx, paths...)
		if err != nil {
			b.Fatal(err)
		}
		for _, f := range files {
			f.Close()
		}
	}
}

// BenchmarkDump measures text rendering with fields.
func BenchmarkDump(b *testing.B) {
	data := fragmented(100)
	file, err := isobmff.Parse(context.Background(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if err := file.Dump(io.Discard, isobmff.DumpOptions{Fields: true}); err != nil {
			b.Fatal(err)
		}
	}
}
