// Package source provides the random-access byte sources a walk reads
// from: local files and HTTP resources fetched with range requests.
//
// Every source satisfies binary.Source and is safe for concurrent ReadAt.
package source

import (
	"fmt"
	"os"
)

// File is a local file opened for reading.
type File struct {
	f    *os.File
	size int64
}

// OpenFile opens path and records its size.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory", path)
	}

	return &File{f: f, size: stat.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	return f.f.ReadAt(p, off)
}

// Size returns the file size at open time.
func (f *File) Size() int64 {
	return f.size
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.f.Name()
}

// Close closes the file.
func (f *File) Close() error {
	return f.f.Close()
}
