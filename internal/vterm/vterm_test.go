package vterm

import (
	"fmt"
	"strings"
	"testing"
)

func TestIngestAndLines(t *testing.T) {
	v := New(24, 80)

	v.Ingest([]byte("hello\r\nworld"))

	lines := v.Lines()
	if len(lines) != 24 {
		t.Fatalf("expected 24 lines, got %d", len(lines))
	}
	if lines[0] != "hello" {
		t.Errorf("line 0: expected %q, got %q", "hello", lines[0])
	}
	if lines[1] != "world" {
		t.Errorf("line 1: expected %q, got %q", "world", lines[1])
	}
}

func TestChangeCounterAdvances(t *testing.T) {
	v := New(24, 80)

	before := v.Changes()
	v.Ingest([]byte("a"))
	after := v.Changes()
	if after <= before {
		t.Errorf("change counter did not advance: before=%d after=%d", before, after)
	}

	// Empty ingest is a no-op.
	v.Ingest(nil)
	if v.Changes() != after {
		t.Errorf("empty ingest moved the counter")
	}
}

func TestChunkingDoesNotAffectSnapshot(t *testing.T) {
	payload := []byte("first line\r\nsecond line with \x1b[31mcolor\x1b[0m\r\nthird")

	whole := New(24, 80)
	whole.Ingest(payload)

	chunked := New(24, 80)
	for i := 0; i < len(payload); i += 3 {
		end := i + 3
		if end > len(payload) {
			end = len(payload)
		}
		chunked.Ingest(payload[i:end])
	}

	a := whole.Snapshot()
	b := chunked.Snapshot()
	if strings.Join(a.Lines, "\n") != strings.Join(b.Lines, "\n") {
		t.Errorf("snapshots differ under fragmentation:\nwhole:\n%s\nchunked:\n%s",
			strings.Join(a.Lines, "\n"), strings.Join(b.Lines, "\n"))
	}
	if a.CursorRow != b.CursorRow || a.CursorCol != b.CursorCol {
		t.Errorf("cursor differs: whole=(%d,%d) chunked=(%d,%d)",
			a.CursorRow, a.CursorCol, b.CursorRow, b.CursorCol)
	}
}

func TestAltScreenDetection(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  bool
	}{
		{"initially off", nil, false},
		{"1049 enable", []string{"\x1b[?1049h"}, true},
		{"1049 enable then disable", []string{"\x1b[?1049h", "\x1b[?1049l"}, false},
		{"47 enable", []string{"\x1b[?47h"}, true},
		{"1047 enable", []string{"\x1b[?1047h"}, true},
		{"split across chunks", []string{"\x1b[?10", "49h"}, true},
		{"enable and disable in one chunk", []string{"\x1b[?1049h\x1b[?1049l"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(24, 80)
			for _, chunk := range tt.input {
				v.Ingest([]byte(chunk))
			}
			if got := v.IsAltScreen(); got != tt.want {
				t.Errorf("IsAltScreen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResizeReflectsNewDimensions(t *testing.T) {
	v := New(24, 80)
	v.Ingest([]byte("before resize"))

	v.Resize(40, 120)

	snap := v.Snapshot()
	if snap.Rows != 40 || snap.Cols != 120 {
		t.Errorf("expected 40x120, got %dx%d", snap.Rows, snap.Cols)
	}
	if len(snap.Lines) != 40 {
		t.Errorf("expected 40 lines, got %d", len(snap.Lines))
	}

	// The grid is fresh; new content lays out at the new width.
	v.Ingest([]byte("after resize"))
	if got := v.Lines()[0]; got != "after resize" {
		t.Errorf("line 0 after resize: expected %q, got %q", "after resize", got)
	}
}

func TestScrollback(t *testing.T) {
	t.Run("captures displaced top lines", func(t *testing.T) {
		v := NewWithScrollback(3, 80, 100)
		v.Ingest([]byte("one\r\ntwo\r\nthree"))
		if got := len(v.Scrollback()); got != 0 {
			t.Fatalf("no scrollback expected before overflow, got %d lines", got)
		}

		// A fourth line pushes "one" off a 3-row grid.
		v.Ingest([]byte("\r\nfour"))
		back := v.Scrollback()
		if len(back) == 0 {
			t.Fatal("expected a captured scrollback line")
		}
		if back[0] != "one" {
			t.Errorf("scrollback[0] = %q, want %q", back[0], "one")
		}
	})

	t.Run("bounded by limit", func(t *testing.T) {
		v := NewWithScrollback(2, 80, 5)
		for i := 0; i < 30; i++ {
			v.Ingest([]byte(fmt.Sprintf("line %d\r\n", i)))
		}
		if got := len(v.Scrollback()); got > 5 {
			t.Errorf("scrollback exceeds limit: %d > 5", got)
		}
	})

	t.Run("zero limit disables capture", func(t *testing.T) {
		v := NewWithScrollback(2, 80, 0)
		for i := 0; i < 10; i++ {
			v.Ingest([]byte(fmt.Sprintf("line %d\r\n", i)))
		}
		if got := len(v.Scrollback()); got != 0 {
			t.Errorf("expected no scrollback, got %d lines", got)
		}
	})
}

func TestCursorPosition(t *testing.T) {
	v := New(24, 80)
	v.Ingest([]byte("abc"))

	row, col := v.Cursor()
	if row != 0 || col != 3 {
		t.Errorf("cursor: expected (0,3), got (%d,%d)", row, col)
	}
}

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want []byte
	}{
		{"enter", "enter", []byte{'\r'}},
		{"single rune", "a", []byte{'a'}},
		{"unicode rune", "é", []byte("é")},
		{"ctrl+c", "ctrl+c", []byte{3}},
		{"up arrow", "up", []byte{27, '[', 'A'}},
		{"backspace", "backspace", []byte{127}},
		{"alt+f", "alt+f", []byte{27, 'f'}},
		{"unknown chord", "ctrl+alt+meta+x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeKey(tt.key)
			if string(got) != string(tt.want) {
				t.Errorf("EncodeKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
