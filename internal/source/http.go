package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/icholy/digest"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBlockSize is the size of one range request.
	DefaultBlockSize = 64 << 10

	// DefaultCacheBlocks is the number of blocks kept in memory.
	DefaultCacheBlocks = 64
)

// ErrRangeUnsupported is returned when a server does not answer range
// requests with 206 Partial Content.
var ErrRangeUnsupported = errors.New("server does not support range requests")

// ErrUnauthorized is returned when the server rejects the request, or the
// credentials, with 401.
var ErrUnauthorized = errors.New("unauthorized")

// HTTPOptions configures an HTTP source.
type HTTPOptions struct {
	// Client defaults to a new http.Client.
	Client *http.Client

	// Username and Password enable digest authentication.
	Username string
	Password string

	BlockSize   int
	CacheBlocks int

	// Header is added to every request.
	Header http.Header

	Logger *slog.Logger
}

// HTTP reads a remote resource in fixed-size blocks with range requests
// and keeps recently used blocks in an LRU cache.
type HTTP struct {
	ctx       context.Context
	url       string
	client    *http.Client
	header    http.Header
	logger    *slog.Logger
	size      int64
	blockSize int64
	cache     *lru.Cache
	inflight  singleflight.Group
}

// OpenHTTP learns the size of the resource at url and returns a source
// reading it. ctx bounds every request the source makes, including later
// reads.
func OpenHTTP(ctx context.Context, url string, opts HTTPOptions) (*HTTP, error) {
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if opts.CacheBlocks <= 0 {
		opts.CacheBlocks = DefaultCacheBlocks
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	if opts.Username != "" {
		base := client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		authed := *client
		authed.Transport = &digest.Transport{
			Username:  opts.Username,
			Password:  opts.Password,
			Transport: base,
		}
		client = &authed
	}

	cache, err := lru.New(opts.CacheBlocks)
	if err != nil {
		return nil, fmt.Errorf("block cache: %w", err)
	}

	h := &HTTP{
		ctx:       ctx,
		url:       url,
		client:    client,
		header:    opts.Header,
		logger:    opts.Logger.With("url", url),
		blockSize: int64(opts.BlockSize),
		cache:     cache,
	}

	h.size, err = h.contentLength()
	if err != nil {
		return nil, err
	}
	h.logger.Debug("opened http source", "size", h.size)
	return h, nil
}

// Size returns the resource length.
func (h *HTTP) Size() int64 {
	return h.size
}

// URL returns the resource address.
func (h *HTTP) URL() string {
	return h.url
}

// ReadAt implements io.ReaderAt on top of the block cache.
func (h *HTTP) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("%s: negative offset %d", h.url, off)
	}

	n := 0
	for n < len(p) {
		pos := off + int64(n)
		if pos >= h.size {
			return n, io.EOF
		}
		index := pos / h.blockSize
		block, err := h.block(index)
		if err != nil {
			return n, err
		}
		n += copy(p[n:], block[pos-index*h.blockSize:])
	}
	return n, nil
}

func (h *HTTP) block(index int64) ([]byte, error) {
	if v, ok := h.cache.Get(index); ok {
		return v.([]byte), nil
	}

	v, err, _ := h.inflight.Do(strconv.FormatInt(index, 10), func() (any, error) {
		start := index * h.blockSize
		end := min(start+h.blockSize, h.size) - 1
		block, err := h.fetch(start, end)
		if err != nil {
			return nil, err
		}
		h.cache.Add(index, block)
		return block, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// fetch reads the inclusive byte range [start, end].
func (h *HTTP) fetch(start, end int64) ([]byte, error) {
	h.logger.Debug("range request", "start", start, "end", end)

	resp, err := h.do(http.MethodGet, start, end)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("%s: range %d-%d: %w", h.url, start, end, err)
	}

	buf := make([]byte, end-start+1)
	if _, err := io.ReadFull(resp.Body, buf); err != nil {
		return nil, fmt.Errorf("%s: range %d-%d: %w", h.url, start, end, err)
	}
	return buf, nil
}

// contentLength asks with HEAD first and falls back to a one-byte range
// request for servers that do not advertise byte ranges.
func (h *HTTP) contentLength() (int64, error) {
	resp, err := h.do(http.MethodHead, -1, -1)
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK && resp.ContentLength >= 0 &&
			strings.EqualFold(resp.Header.Get("Accept-Ranges"), "bytes") {
			return resp.ContentLength, nil
		}
	}

	resp, err = h.do(http.MethodGet, 0, 0)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return 0, fmt.Errorf("%s: %w", h.url, err)
	}
	return parseContentRange(resp.Header.Get("Content-Range"))
}

func (h *HTTP) do(method string, start, end int64) (*http.Response, error) {
	req, err := http.NewRequestWithContext(h.ctx, method, h.url, nil)
	if err != nil {
		return nil, err
	}
	for k, values := range h.header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if start >= 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, h.url, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusPartialContent:
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", resp.Status, ErrUnauthorized)
	default:
		return fmt.Errorf("%s: %w", resp.Status, ErrRangeUnsupported)
	}
}

// parseContentRange returns the complete length from a
// "bytes start-end/length" header.
func parseContentRange(v string) (int64, error) {
	_, total, ok := strings.Cut(v, "/")
	if !ok || !strings.HasPrefix(v, "bytes ") {
		return 0, fmt.Errorf("malformed Content-Range %q", v)
	}
	if total == "*" {
		return 0, fmt.Errorf("no complete length in Content-Range %q: %w", v, ErrRangeUnsupported)
	}
	size, err := strconv.ParseInt(total, 10, 64)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("malformed Content-Range %q", v)
	}
	return size, nil
}
