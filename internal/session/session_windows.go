//go:build windows

package session

import (
	"os"
	"os/exec"
)

func startWithSize(cmd *exec.Cmd, rows, cols uint16) (*os.File, error) {
	return nil, ErrNotSupported
}

func setSize(ptmx *os.File, rows, cols uint16) error {
	return ErrNotSupported
}

func (s *Session) signalHangup() error {
	if s.cmd.Process == nil {
		return ErrNotRunning
	}
	return s.cmd.Process.Kill()
}

func (s *Session) signalKill() error {
	if s.cmd.Process == nil {
		return ErrNotRunning
	}
	return s.cmd.Process.Kill()
}

// PasswordMode always reports false: Windows consoles have no termios
// echo flag to probe.
func (s *Session) PasswordMode() bool {
	return false
}
