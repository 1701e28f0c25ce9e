package dump

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/simonhull/isobmff/internal/types"
)

// Info writes a human-readable summary of a presentation.
func Info(w io.Writer, info types.Info) error {
	p := &printer{w: w}

	if info.MajorBrand != "" {
		p.printf("Brands:     %s (%s)\n", info.MajorBrand, strings.Join(info.CompatibleBrands, ", "))
	}
	if info.Duration > 0 {
		p.printf("Duration:   %s\n", info.Duration.Round(time.Millisecond))
	}
	if info.Fragmented {
		p.printf("Fragments:  %s\n", humanize.Comma(int64(info.Fragments)))
	}
	if len(info.Protection) > 0 {
		p.printf("Protection: %s\n", strings.Join(info.Protection, ", "))
	}

	for _, t := range info.Tracks {
		p.printf("Track %d:    %s %s %s", t.ID, t.Handler, t.Language, t)
		if t.SampleCount > 0 {
			p.printf(" (%s samples)", humanize.Comma(int64(t.SampleCount)))
		}
		p.printf("\n")
	}

	if !info.Tags.IsEmpty() {
		p.printf("Tags:\n")
		for key, values := range info.Tags.All() {
			p.printf("  %s: %s\n", key, strings.Join(values, "; "))
		}
	}

	for _, a := range info.Artwork {
		p.printf("Artwork:    %s at offset %s\n", a, humanize.Comma(a.Offset))
	}

	if len(info.Chapters) > 0 {
		p.printf("Chapters:\n")
		for _, c := range info.Chapters {
			p.printf("  %2d. %s - %s  %s\n", c.Index,
				c.StartTime.Round(time.Millisecond), c.EndTime.Round(time.Millisecond), c.Title)
		}
	}

	return p.err
}

// Warnings writes one line per warning.
func Warnings(w io.Writer, warnings []types.Warning) error {
	p := &printer{w: w}
	for _, warn := range warnings {
		p.printf("warning: %s\n", warn)
	}
	if len(warnings) > 0 {
		p.printf("%s\n", pluralWarnings(len(warnings)))
	}
	return p.err
}

func pluralWarnings(n int) string {
	if n == 1 {
		return "1 warning"
	}
	return fmt.Sprintf("%s warnings", humanize.Comma(int64(n)))
}
