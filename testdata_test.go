package isobmff_test

import (
	"os"
	"path/filepath"
	"testing"

	bt "github.com/simonhull/isobmff/internal/boxtest"
)

// movie builds an M4B with one AAC track and a five second movie header.
func movie() []byte {
	return bt.Cat(
		bt.Ftyp("M4B ", 0, "M4B ", "isom"),
		bt.Box("moov",
			bt.Mvhd(0, 1000, 5000),
			bt.Box("trak",
				bt.Tkhd(1, 5000, 0, 0),
				bt.Box("mdia",
					bt.Mdhd(0, 44100, 220500, "eng"),
					bt.Hdlr("soun", "SoundHandler"),
					bt.Box("minf",
						bt.FullBox("smhd", 0, 0, bt.U16(0), bt.U16(0)),
						bt.Box("stbl",
							bt.FullBox("stsd", 0, 0, bt.U32(1),
								bt.AudioEntry("mp4a", 2, 44100),
							),
							bt.Stsz(100, 200),
						),
					),
				),
			),
		),
	)
}

// writeFile stores data in a temporary file and returns its path.
func writeFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatal(err)
	}
	return path
}
