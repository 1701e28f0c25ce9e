package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/icholy/digest"
	"github.com/stretchr/testify/require"
)

func payload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i * 7)
	}
	return b
}

// rangeServer serves data with range support and counts the range
// requests it receives.
func rangeServer(t *testing.T, data []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var ranges atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.Header.Get("Range") != "" {
			ranges.Add(1)
		}
		http.ServeContent(w, r, "movie.mp4", time.Time{}, bytes.NewReader(data))
	}))
	t.Cleanup(srv.Close)
	return srv, &ranges
}

func TestHTTPReadAt(t *testing.T) {
	data := payload(200_000)
	srv, ranges := rangeServer(t, data)

	src, err := OpenHTTP(context.Background(), srv.URL, HTTPOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), src.Size())
	require.Equal(t, srv.URL, src.URL())
	require.Zero(t, ranges.Load())

	// Crosses the boundary between blocks 0 and 1.
	buf := make([]byte, 20)
	n, err := src.ReadAt(buf, DefaultBlockSize-10)
	require.NoError(t, err)
	require.Equal(t, 20, n)
	require.Equal(t, data[DefaultBlockSize-10:DefaultBlockSize+10], buf)
	require.Equal(t, int32(2), ranges.Load())

	// Served from the cache.
	_, err = src.ReadAt(buf, 100)
	require.NoError(t, err)
	require.Equal(t, data[100:120], buf)
	require.Equal(t, int32(2), ranges.Load())

	// Short read at the end of the resource.
	n, err = src.ReadAt(buf, int64(len(data)-5))
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 5, n)
	require.Equal(t, data[len(data)-5:], buf[:5])

	_, err = src.ReadAt(buf, -1)
	require.Error(t, err)
}

func TestHTTPSmallBlocksAndEviction(t *testing.T) {
	data := payload(1000)
	srv, ranges := rangeServer(t, data)

	src, err := OpenHTTP(context.Background(), srv.URL, HTTPOptions{BlockSize: 100, CacheBlocks: 2})
	require.NoError(t, err)

	all := make([]byte, len(data))
	n, err := src.ReadAt(all, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, all)
	require.Equal(t, int32(10), ranges.Load())

	// Block 0 was evicted long ago.
	_, err = src.ReadAt(all[:10], 0)
	require.NoError(t, err)
	require.Equal(t, int32(11), ranges.Load())
}

func TestHTTPConcurrentReads(t *testing.T) {
	data := payload(300_000)
	srv, _ := rangeServer(t, data)

	src, err := OpenHTTP(context.Background(), srv.URL, HTTPOptions{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			off := int64(i * 17_000)
			buf := make([]byte, 5000)
			if _, err := src.ReadAt(buf, off); err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(buf, data[off:off+5000]) {
				errs <- errors.New("data mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestHTTPWithoutHead(t *testing.T) {
	data := payload(5000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		http.ServeContent(w, r, "movie.mp4", time.Time{}, bytes.NewReader(data))
	}))
	defer srv.Close()

	src, err := OpenHTTP(context.Background(), srv.URL, HTTPOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(5000), src.Size())
}

func TestHTTPRangeUnsupported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload(100))
	}))
	defer srv.Close()

	_, err := OpenHTTP(context.Background(), srv.URL, HTTPOptions{})
	require.ErrorIs(t, err, ErrRangeUnsupported)
}

func TestHTTPHeaderAndCancel(t *testing.T) {
	data := payload(1000)
	var token atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token.Store(r.Header.Get("X-Token"))
		http.ServeContent(w, r, "movie.mp4", time.Time{}, bytes.NewReader(data))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	src, err := OpenHTTP(ctx, srv.URL, HTTPOptions{Header: http.Header{"X-Token": {"abc"}}})
	require.NoError(t, err)
	require.Equal(t, "abc", token.Load())

	cancel()
	_, err = src.ReadAt(make([]byte, 10), 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTTPDigestAuth(t *testing.T) {
	data := payload(3000)
	chal := digest.Challenge{
		Realm:     "isobmff",
		Nonce:     "dcd98b7102dd2f0e8b11d0f600bfb0c093",
		Opaque:    "5ccc069c403ebaf9f0171e9517f40e41",
		Algorithm: "MD5",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reject := func() {
			w.Header().Set("WWW-Authenticate", chal.String())
			w.WriteHeader(http.StatusUnauthorized)
		}

		h := r.Header.Get("Authorization")
		if h == "" {
			reject()
			return
		}
		cred, err := digest.ParseCredentials(h)
		if err != nil || cred.Username != "user" {
			reject()
			return
		}
		want, err := digest.Digest(&chal, digest.Options{
			Method:   r.Method,
			URI:      cred.URI,
			Username: "user",
			Password: "secret",
		})
		if err != nil || cred.Response != want.Response {
			reject()
			return
		}
		http.ServeContent(w, r, "movie.mp4", time.Time{}, bytes.NewReader(data))
	}))
	defer srv.Close()

	src, err := OpenHTTP(context.Background(), srv.URL, HTTPOptions{Username: "user", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), src.Size())

	buf := make([]byte, 100)
	_, err = src.ReadAt(buf, 2000)
	require.NoError(t, err)
	require.Equal(t, data[2000:2100], buf)

	_, err = OpenHTTP(context.Background(), srv.URL, HTTPOptions{Username: "user", Password: "wrong"})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = OpenHTTP(context.Background(), srv.URL, HTTPOptions{})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestParseContentRange(t *testing.T) {
	testCases := []struct {
		header string
		want   int64
		err    bool
	}{
		{"bytes 0-0/12345", 12345, false},
		{"bytes 0-0/0", 0, false},
		{"bytes 0-0/*", 0, true},
		{"0-0/100", 0, true},
		{"bytes 0-0", 0, true},
		{"bytes 0-0/abc", 0, true},
	}

	for _, tc := range testCases {
		got, err := parseContentRange(tc.header)
		if tc.err {
			require.Error(t, err, tc.header)
			continue
		}
		require.NoError(t, err, tc.header)
		require.Equal(t, tc.want, got)
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.mp4")
	data := payload(64)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.Equal(t, int64(64), f.Size())
	require.Equal(t, path, f.Name())

	buf := make([]byte, 8)
	_, err = f.ReadAt(buf, 10)
	require.NoError(t, err)
	require.Equal(t, data[10:18], buf)
	require.NoError(t, f.Close())

	_, err = OpenFile(dir)
	require.Error(t, err)

	_, err = OpenFile(filepath.Join(dir, "missing.mp4"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
