// Package gate provides the swappable output sink that stands between
// keystroke encoding and the PTY. The terminal state encodes key events and
// writes the bytes through a single Gate for the lifetime of the pane; when
// no session exists the Gate discards them, and when a session is spawned
// the Gate is bound to the PTY master's input writer. Swapping the
// destination never requires recreating the terminal state.
package gate

import (
	"io"
	"sync"
)

// Gate is a Writer whose destination can be swapped at runtime.
// The zero value is not usable; call New.
type Gate struct {
	mu   sync.Mutex
	dst  io.Writer
	live bool
}

// New returns a Gate that discards all writes until Bind is called.
func New() *Gate {
	return &Gate{dst: io.Discard}
}

// Bind routes all subsequent writes to w.
func (g *Gate) Bind(w io.Writer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dst = w
	g.live = true
}

// Unbind resets the destination to the discard sink.
func (g *Gate) Unbind() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dst = io.Discard
	g.live = false
}

// Bound reports whether a live writer is currently bound.
func (g *Gate) Bound() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.live
}

// Write forwards p to the bound destination. The destination lock is held
// for the duration of the write, so an in-flight write always completes
// against a single destination and never interleaves with a swap.
func (g *Gate) Write(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dst.Write(p)
}
