// Package vterm wraps the external virtual-terminal emulator behind the
// narrow contract the pane consumes: feed bytes, read visible lines and
// cursor, query the alternate-screen flag, and observe a monotone change
// counter. The escape-sequence parser and screen grid belong to the
// emulator (github.com/hinshun/vt10x); this package never interprets
// terminal output beyond the DEC private-mode toggles that switch the
// alternate screen.
package vterm

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hinshun/vt10x"
)

// Snapshot is a point-in-time copy of the visible screen, safe to use
// without further locking.
type Snapshot struct {
	Lines     []string
	CursorRow int
	CursorCol int
	Rows      int
	Cols      int
	AltScreen bool
	Seq       uint64
}

// Screen is the read/write surface of the shared terminal state. Exactly
// one writer (the output relay) calls Ingest; any number of readers may
// call the rest.
type Screen interface {
	// Ingest feeds raw child output into the emulator.
	Ingest(p []byte)

	// Lines returns the visible rows, top to bottom, trailing blanks trimmed.
	Lines() []string

	// Cursor returns the cursor position as (row, col), zero-based.
	Cursor() (row, col int)

	// IsAltScreen reports whether the alternate screen buffer is active.
	IsAltScreen() bool

	// Changes returns a counter that increases whenever Ingest ran.
	// Readers poll it to detect new content without diffing the grid.
	Changes() uint64

	// Resize changes the grid dimensions.
	Resize(rows, cols int)

	// Size returns the current grid dimensions.
	Size() (rows, cols int)

	// Snapshot copies the visible state in one locked pass.
	Snapshot() Snapshot

	// Scrollback returns the lines that have scrolled off the top,
	// oldest first, bounded by the configured limit.
	Scrollback() []string
}

// Alternate-screen toggles (DECSET/DECRST 47, 1047, 1049). Tracked here
// because the emulator does not expose its mode flags.
var (
	altEnable  = [][]byte{[]byte("\x1b[?1049h"), []byte("\x1b[?1047h"), []byte("\x1b[?47h")}
	altDisable = [][]byte{[]byte("\x1b[?1049l"), []byte("\x1b[?1047l"), []byte("\x1b[?47l")}
)

// maxAltSeqLen is the longest alternate-screen toggle sequence. A tail of
// this length carries over between Ingest calls so a toggle split across
// chunk boundaries is still detected.
const maxAltSeqLen = 8

// defaultScrollback bounds the scrolled-off-line buffer when the caller
// does not choose a limit.
const defaultScrollback = 1000

// VT adapts a vt10x terminal to the Screen interface.
type VT struct {
	mu        sync.Mutex
	term      vt10x.Terminal
	rows      int
	cols      int
	alt       bool
	tail      []byte
	back      []string
	backLimit int
	seq       atomic.Uint64
}

// New creates a Screen backed by a vt10x terminal of the given size.
func New(rows, cols int) *VT {
	return NewWithScrollback(rows, cols, defaultScrollback)
}

// NewWithScrollback creates a Screen keeping at most limit scrolled-off
// lines. A limit of zero disables scrollback capture.
func NewWithScrollback(rows, cols, limit int) *VT {
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}
	if limit < 0 {
		limit = 0
	}
	return &VT{
		// vt10x takes (cols, rows).
		term:      vt10x.New(vt10x.WithSize(cols, rows)),
		rows:      rows,
		cols:      cols,
		backLimit: limit,
	}
}

// Ingest implements Screen. The lock is held for the single emulator write
// only; renders happening on another goroutine block for at most one chunk.
func (v *VT) Ingest(p []byte) {
	if len(p) == 0 {
		return
	}
	v.mu.Lock()
	v.scanAltToggle(p)

	// A changed top row after the write means content scrolled off; the
	// displaced line goes to the scrollback. Alt-screen apps repaint in
	// place, so nothing is captured while the alternate screen is active.
	var firstBefore string
	capture := v.backLimit > 0 && !v.alt
	if capture {
		firstBefore = v.lineLocked(0)
	}

	_, _ = v.term.Write(p)

	if capture && firstBefore != "" && v.lineLocked(0) != firstBefore {
		if len(v.back) >= v.backLimit {
			drop := v.backLimit / 10
			if drop < 1 {
				drop = 1
			}
			v.back = v.back[drop:]
		}
		v.back = append(v.back, firstBefore)
	}
	v.mu.Unlock()
	v.seq.Add(1)
}

// Scrollback implements Screen.
func (v *VT) Scrollback() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.back))
	copy(out, v.back)
	return out
}

// scanAltToggle updates the alternate-screen flag from toggles found in p,
// carrying a short tail across calls so split sequences are not missed.
// Caller holds v.mu.
func (v *VT) scanAltToggle(p []byte) {
	buf := p
	if len(v.tail) > 0 {
		buf = append(append([]byte{}, v.tail...), p...)
	}

	// The last toggle in the buffer wins. Rescanning the carried tail can
	// re-detect a toggle seen in the previous call, which is harmless.
	lastOn, lastOff := -1, -1
	for _, seq := range altEnable {
		if i := bytes.LastIndex(buf, seq); i > lastOn {
			lastOn = i
		}
	}
	for _, seq := range altDisable {
		if i := bytes.LastIndex(buf, seq); i > lastOff {
			lastOff = i
		}
	}
	if lastOn > lastOff {
		v.alt = true
	} else if lastOff > lastOn {
		v.alt = false
	}

	keep := maxAltSeqLen - 1
	if len(buf) < keep {
		keep = len(buf)
	}
	v.tail = append(v.tail[:0], buf[len(buf)-keep:]...)
}

// Lines implements Screen.
func (v *VT) Lines() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	lines := make([]string, v.rows)
	for row := 0; row < v.rows; row++ {
		lines[row] = v.lineLocked(row)
	}
	return lines
}

// lineLocked renders one row as plain text. Caller holds v.mu.
func (v *VT) lineLocked(row int) string {
	var b strings.Builder
	for col := 0; col < v.cols; col++ {
		c := v.term.Cell(col, row)
		if c.Char == 0 {
			b.WriteRune(' ')
		} else {
			b.WriteRune(c.Char)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Cursor implements Screen.
func (v *VT) Cursor() (row, col int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	cur := v.term.Cursor()
	return cur.Y, cur.X
}

// IsAltScreen implements Screen.
func (v *VT) IsAltScreen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.alt
}

// Changes implements Screen.
func (v *VT) Changes() uint64 {
	return v.seq.Load()
}

// Resize implements Screen. The emulator is recreated at the new size
// rather than resized in place: content laid out for the old size would
// otherwise corrupt the new grid, and the child redraws on SIGWINCH anyway.
func (v *VT) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	v.mu.Lock()
	v.term = vt10x.New(vt10x.WithSize(cols, rows))
	v.rows = rows
	v.cols = cols
	v.tail = nil
	v.mu.Unlock()
	v.seq.Add(1)
}

// Size implements Screen.
func (v *VT) Size() (rows, cols int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rows, v.cols
}

// Snapshot implements Screen.
func (v *VT) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	lines := make([]string, v.rows)
	for row := 0; row < v.rows; row++ {
		lines[row] = v.lineLocked(row)
	}
	cur := v.term.Cursor()
	return Snapshot{
		Lines:     lines,
		CursorRow: cur.Y,
		CursorCol: cur.X,
		Rows:      v.rows,
		Cols:      v.cols,
		AltScreen: v.alt,
		Seq:       v.seq.Load(),
	}
}
