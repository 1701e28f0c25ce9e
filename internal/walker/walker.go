// Package walker turns a byte range into a tree of boxes by recursive
// descent.
//
// Offsets are authoritative: after each box the walk continues at
// Offset+EffectiveSize no matter how much of the box its decoder read, so
// a bad payload never desynchronises its siblings.
package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/simonhull/isobmff/internal/binary"
	"github.com/simonhull/isobmff/internal/box"
	"github.com/simonhull/isobmff/internal/types"
)

// Default limits applied when Options leaves them unset.
const (
	DefaultMaxDepth = 64
	DefaultMaxBoxes = 1_000_000
)

// Options controls a walk.
type Options struct {
	// Strict aborts on the first malformed box, out-of-range read or
	// exceeded limit instead of recording a warning.
	Strict bool

	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// MaxBoxes bounds the total number of boxes. Zero disables the check.
	MaxBoxes int

	// Logger receives debug records for every failure. Nil discards them.
	Logger *slog.Logger
}

// Result is the outcome of a walk.
type Result struct {
	Boxes    []*box.Box
	Warnings []types.Warning
	Count    int
}

// errStop ends a lenient walk after a limit was hit.
var errStop = errors.New("walk stopped")

type walker struct {
	ctx  context.Context
	sr   *binary.SafeReader
	opts Options
	log  *slog.Logger
	res  *Result
}

// Walk decodes the boxes in [start, end) of sr. end is clamped to the
// source size.
//
// In lenient mode the error is nil unless ctx is done; problems are
// recorded in Result.Warnings. In strict mode the first problem is
// returned together with everything decoded before it.
func Walk(ctx context.Context, sr *binary.SafeReader, start, end int64, opts Options) (*Result, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if end < 0 || end > sr.Size() {
		end = sr.Size()
	}
	if start < 0 {
		start = 0
	}

	w := &walker{
		ctx:  ctx,
		sr:   sr,
		opts: opts,
		log:  opts.Logger.With("path", sr.Path()),
		res:  &Result{},
	}

	boxes, err := w.walkRange(start, end, 0)
	w.res.Boxes = boxes
	if errors.Is(err, errStop) {
		err = nil
	}

	w.log.Debug("walk finished",
		"boxes", w.res.Count,
		"roots", len(boxes),
		"warnings", len(w.res.Warnings))

	return w.res, err
}

// walkRange decodes the sibling boxes of one range. A non-nil error
// aborts every enclosing range as well.
func (w *walker) walkRange(start, end int64, depth int) ([]*box.Box, error) {
	var boxes []*box.Box

	for offset := start; offset < end; {
		if err := w.ctx.Err(); err != nil {
			return boxes, err
		}

		if end-offset < 8 {
			return boxes, w.fail("layout", "", offset, w.malformed("", offset,
				fmt.Sprintf("%d trailing bytes too short for a box header", end-offset)))
		}

		b, entry, err := readHeader(w.sr, offset, end)
		if err != nil {
			// Without a header the rest of this range cannot be located.
			return boxes, w.fail("header", "", offset, err)
		}
		typ := b.Type.String()

		w.res.Count++
		if w.opts.MaxBoxes > 0 && w.res.Count > w.opts.MaxBoxes {
			return boxes, w.limit("count", w.opts.MaxBoxes, offset)
		}

		size := b.EffectiveSize()
		if size < b.HeaderLen {
			boxes = append(boxes, b)
			if err := w.fail("layout", typ, offset, w.malformed(typ, offset,
				fmt.Sprintf("declared size %d is smaller than its %d byte header", size, b.HeaderLen))); err != nil {
				return boxes, err
			}
			offset += int64(b.HeaderLen)
			continue
		}

		contentEnd := end
		if size <= uint64(end-offset) {
			contentEnd = offset + int64(size)
		} else if err := w.fail("layout", typ, offset, w.malformed(typ, offset,
			fmt.Sprintf("box of %d bytes does not fit in the %d bytes left in its parent", size, end-offset))); err != nil {
			return append(boxes, b), err
		}

		fieldsEnd := int64(b.ContentOffset())
		decoded := true
		if entry.Decode != nil {
			r := binary.NewChainReader(binary.NewBoundedReader(w.sr, fieldsEnd, contentEnd))
			payload, err := entry.Decode(r, &b.Header)
			b.Payload = payload
			fieldsEnd = r.Offset()
			if err != nil {
				decoded = false
				if err := w.fail("fields", typ, offset, err); err != nil {
					return append(boxes, b), err
				}
			}
		}

		// Children of a box whose own fields failed to decode cannot be
		// located reliably.
		if b.Container && decoded {
			if depth+1 > w.opts.MaxDepth {
				return append(boxes, b), w.limit("depth", w.opts.MaxDepth, offset)
			}
			children, err := w.walkRange(fieldsEnd, contentEnd, depth+1)
			b.Children = children
			if err != nil {
				return append(boxes, b), err
			}
		}

		boxes = append(boxes, b)
		offset = contentEnd
	}

	return boxes, nil
}

func (w *walker) malformed(typ string, offset int64, reason string) error {
	return &types.MalformedBoxError{
		Path:   w.sr.Path(),
		Type:   typ,
		Offset: offset,
		Reason: reason,
	}
}

// fail reports err. It returns err in strict mode and records a warning
// otherwise.
func (w *walker) fail(stage, typ string, offset int64, err error) error {
	w.log.Debug("box decode failed",
		"stage", stage,
		"type", typ,
		"offset", offset,
		"error", err)

	if w.opts.Strict {
		return err
	}
	w.res.Warnings = append(w.res.Warnings, types.Warning{
		Stage:   stage,
		Type:    typ,
		Offset:  offset,
		Message: err.Error(),
		Err:     err,
	})
	return nil
}

// limit reports an exceeded limit. Both modes stop the walk.
func (w *walker) limit(name string, maximum int, offset int64) error {
	err := &types.LimitError{Limit: name, Max: maximum, Offset: offset}
	if ferr := w.fail("limits", "", offset, err); ferr != nil {
		return ferr
	}
	return errStop
}
