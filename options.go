package isobmff

import (
	"log/slog"
	"net/http"

	"github.com/simonhull/isobmff/internal/walker"
)

// Option configures how a file is opened and parsed.
//
// Example:
//
//	file, err := isobmff.Open("movie.mp4",
//	    isobmff.WithStrictParsing(),
//	    isobmff.WithMaxDepth(16),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	strictParsing  bool // Fail on the first malformed box
	ignoreWarnings bool // Drop warnings from the File
	maxDepth       int
	maxBoxes       int // 0 = no limit
	logger         *slog.Logger

	// Byte range to walk; end 0 means the end of the source.
	start int64
	end   int64

	// HTTP sources
	httpClient  *http.Client
	username    string
	password    string
	blockSize   int
	cacheBlocks int
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		maxDepth: walker.DefaultMaxDepth,
		maxBoxes: walker.DefaultMaxBoxes,
		logger:   slog.New(slog.DiscardHandler),
	}
}

func (o *openOptions) walkerOptions() walker.Options {
	return walker.Options{
		Strict:   o.strictParsing,
		MaxDepth: o.maxDepth,
		MaxBoxes: o.maxBoxes,
		Logger:   o.logger,
	}
}

// WithStrictParsing makes the first malformed box, out-of-range read or
// exceeded limit fail the parse.
//
// By default such problems are recorded in File.Warnings and parsing
// continues with the next box.
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings discards warnings; File.Warnings will always be empty.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithMaxDepth bounds container nesting. Values below 1 restore the
// default of 64.
func WithMaxDepth(depth int) Option {
	return func(o *openOptions) {
		if depth < 1 {
			depth = walker.DefaultMaxDepth
		}
		o.maxDepth = depth
	}
}

// WithMaxBoxes bounds the number of boxes decoded. 0 disables the limit.
//
// Default is 1,000,000.
func WithMaxBoxes(n int) Option {
	return func(o *openOptions) {
		o.maxBoxes = max(n, 0)
	}
}

// WithLogger sends debug records about the parse to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRange walks only the bytes in [start, end) of the source. An end of
// 0 means the end of the source.
//
// The range must begin at a box header, for example the moof of one
// fragment:
//
//	file, err := isobmff.Open("stream.mp4", isobmff.WithRange(moofOffset, 0))
func WithRange(start, end int64) Option {
	return func(o *openOptions) {
		o.start = max(start, 0)
		o.end = max(end, 0)
	}
}

// WithHTTPClient sets the client OpenURL uses.
func WithHTTPClient(client *http.Client) Option {
	return func(o *openOptions) {
		o.httpClient = client
	}
}

// WithDigestAuth makes OpenURL answer digest authentication challenges.
func WithDigestAuth(username, password string) Option {
	return func(o *openOptions) {
		o.username = username
		o.password = password
	}
}

// WithHTTPCache sets the range request size and the number of blocks
// OpenURL keeps in memory. Zero keeps the default (64 KiB and 64 blocks).
func WithHTTPCache(blockSize, blocks int) Option {
	return func(o *openOptions) {
		o.blockSize = blockSize
		o.cacheBlocks = blocks
	}
}

// WithConfig applies every setting of cfg.
func WithConfig(cfg Config) Option {
	return func(o *openOptions) {
		for _, opt := range cfg.Options() {
			opt(o)
		}
	}
}
