package session

import (
	"github.com/Dicklesworthstone/agentpane/internal/vterm"
)

// relayChunkSize is the fixed read size for one relay cycle.
const relayChunkSize = 8192

// Relay drains a session's PTY output into the shared terminal state.
// It runs on its own goroutine because PTY reads are blocking OS I/O that
// must never stall keystroke dispatch; exactly one relay exists per live
// session and nothing else reads the session's output. The relay holds no
// lock of its own: the screen's single ingestion call per chunk is the
// only synchronization point with readers.
type Relay struct {
	done chan struct{}
}

// StartRelay begins draining sess into screen. When the output stream
// returns end-of-file or any read error, the relay calls onExit exactly
// once and stops; read errors are not distinguished from EOF. Termination
// unblocks the pending read through process exit closing the slave side,
// never by interrupting the goroutine.
func StartRelay(sess *Session, screen vterm.Screen, onExit func()) *Relay {
	r := &Relay{done: make(chan struct{})}
	go r.loop(sess, screen, onExit)
	return r
}

func (r *Relay) loop(sess *Session, screen vterm.Screen, onExit func()) {
	defer close(r.done)

	buf := make([]byte, relayChunkSize)
	for {
		n, err := sess.Output().Read(buf)
		if n > 0 {
			screen.Ingest(buf[:n])
		}
		if err != nil {
			if onExit != nil {
				onExit()
			}
			return
		}
	}
}

// Done returns a channel closed when the relay loop has stopped.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

// Join blocks until the relay loop has stopped.
func (r *Relay) Join() {
	<-r.done
}
