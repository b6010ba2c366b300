//go:build unix

package session

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// startWithSize starts cmd attached to a freshly allocated PTY slave and
// returns the master side. creack/pty puts the child in its own session
// with the slave as controlling terminal, so the child leads its own
// process group.
func startWithSize(cmd *exec.Cmd, rows, cols uint16) (*os.File, error) {
	return pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
}

func setSize(ptmx *os.File, rows, cols uint16) error {
	return pty.Setsize(ptmx, &pty.Winsize{Rows: rows, Cols: cols})
}

// signalHangup delivers SIGHUP to the child's process group.
func (s *Session) signalHangup() error {
	if s.cmd.Process == nil {
		return ErrNotRunning
	}
	return syscall.Kill(-s.cmd.Process.Pid, syscall.SIGHUP)
}

// signalKill delivers SIGKILL to the child's process group.
func (s *Session) signalKill() error {
	if s.cmd.Process == nil {
		return ErrNotRunning
	}
	return syscall.Kill(-s.cmd.Process.Pid, syscall.SIGKILL)
}
