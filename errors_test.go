package isobmff

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestOutOfRangeError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OutOfRangeError
		contains []string
	}{
		{
			name: "offset beyond source size",
			err: &OutOfRangeError{
				Path:   "test.mp4",
				Offset: 1000,
				Length: 4,
				Size:   500,
				What:   "box size",
			},
			contains: []string{"test.mp4", "offset 1000 out of range", "source size: 500", "box size"},
		},
		{
			name: "read would exceed box end",
			err: &OutOfRangeError{
				Path:   "movie.mp4",
				Offset: 100,
				Length: 50,
				Size:   120,
				What:   "mvhd duration",
				Limit:  true,
			},
			contains: []string{"movie.mp4", "read of 50 bytes", "offset 100", "exceed box end 120", "mvhd duration"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(msg, substr) {
					t.Errorf("error message %q should contain %q", msg, substr)
				}
			}
		})
	}
}

func TestMalformedBoxError_Error(t *testing.T) {
	err := &MalformedBoxError{
		Path:   "broken.mp4",
		Type:   "trak",
		Offset: 256,
		Reason: "declared size 4 is smaller than its 8 byte header",
	}

	msg := err.Error()
	for _, want := range []string{"broken.mp4", `"trak"`, "offset 256", "smaller than its 8 byte header"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should contain %q", msg, want)
		}
	}

	untyped := &MalformedBoxError{Path: "broken.mp4", Offset: 10, Reason: "3 trailing bytes"}
	if strings.Contains(untyped.Error(), `""`) {
		t.Errorf("error without a type should not quote one: %s", untyped.Error())
	}
}

func TestUnsupportedFormatError_Error(t *testing.T) {
	err := &UnsupportedFormatError{
		Path:   "test.mp3",
		Reason: "no ftyp or known top-level box at start of file",
	}

	msg := err.Error()
	if !strings.Contains(msg, "test.mp3") {
		t.Errorf("error should contain path, got: %s", msg)
	}
	if !strings.Contains(msg, "unsupported format") {
		t.Errorf("error should contain 'unsupported format', got: %s", msg)
	}
}

func TestErrorWithoutPath(t *testing.T) {
	errs := []error{
		&OutOfRangeError{Offset: 10, Length: 4, Size: 12, What: "box size"},
		&MalformedBoxError{Type: "free", Offset: 8, Reason: "too big"},
		&UnsupportedFormatError{Reason: "no boxes"},
	}
	for _, err := range errs {
		if msg := err.Error(); strings.HasPrefix(msg, ":") || strings.HasPrefix(msg, " ") {
			t.Errorf("error without a path should not start with a separator: %q", msg)
		}
	}

	if got, want := (&UnsupportedFormatError{Reason: "no boxes"}).Error(), "unsupported format: no boxes"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLimitError_Error(t *testing.T) {
	err := &LimitError{Limit: "depth", Max: 64, Offset: 4096}
	if got, want := err.Error(), "box depth limit 64 exceeded at offset 4096"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWarning_Unwrap(t *testing.T) {
	cause := &MalformedBoxError{Path: "a.mp4", Type: "free", Offset: 8, Reason: "too big"}
	w := Warning{Stage: "layout", Type: "free", Offset: 8, Message: cause.Error(), Err: cause}

	var malformed *MalformedBoxError
	if !errors.As(fmt.Errorf("wrapped: %w", w), &malformed) {
		t.Fatal("errors.As should reach the cause through a Warning")
	}
	if malformed != cause {
		t.Error("errors.As returned a different error")
	}
	if !strings.HasPrefix(w.String(), `layout "free" (at offset 8)`) {
		t.Errorf("String() = %q", w.String())
	}
}
