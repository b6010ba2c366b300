//go:build unix

package session

import "golang.org/x/sys/unix"

// PasswordMode reports whether the child appears to be reading a password:
// terminal echo disabled while canonical (line) mode stays on, the termios
// shape `stty -echo icanon` produces. Read from the PTY master so the
// answer reflects what the child most recently configured. Errors read as
// "not password mode"; the permission gateway then falls back to ordinary
// trust-level rules rather than blocking on a probe failure.
func (s *Session) PasswordMode() bool {
	tio, err := unix.IoctlGetTermios(int(s.ptmx.Fd()), ioctlReadTermios)
	if err != nil {
		return false
	}
	return tio.Lflag&unix.ECHO == 0 && tio.Lflag&unix.ICANON != 0
}
