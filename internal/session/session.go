// Package session owns the PTY lifecycle for one embedded interactive
// process: allocating the PTY pair, spawning the child on the slave side,
// resizing, terminating, and draining output through a dedicated relay.
// A pane holds at most one live Session at a time; re-entering terminal
// mode after the child exits spawns a fresh one.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

// ErrNotRunning is returned when operating on a session whose child has
// already exited.
var ErrNotRunning = errors.New("session is not running")

// ErrNotSupported is returned when PTY sessions are not supported on the
// current platform.
var ErrNotSupported = errors.New("PTY sessions not supported on this platform")

// terminateGrace is how long Terminate waits after the hang-up signal
// before escalating to a forceful kill.
const terminateGrace = 500 * time.Millisecond

// Options configures a session spawn.
type Options struct {
	// Command is the program to run. Empty means $SHELL, falling back to
	// "bash".
	Command string
	// Args are additional arguments for the command.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is additional environment for the child, appended to os.Environ.
	Env []string
	// Rows and Cols are the initial PTY dimensions (default 24x80).
	Rows uint16
	Cols uint16
}

// Session wraps one child process attached to a PTY master.
type Session struct {
	cmd  *exec.Cmd
	ptmx *os.File

	mu   sync.Mutex
	rows uint16
	cols uint16

	done chan struct{}
	exit int
	once sync.Once
}

// DefaultShell returns the command to run when Options.Command is empty.
func DefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "bash"
}

// Spawn allocates a PTY pair, starts the child attached to the slave side,
// and begins reaping the child in the background. The caller owns the
// returned session and must eventually call Terminate or Close.
func Spawn(opts Options) (*Session, error) {
	if opts.Command == "" {
		opts.Command = DefaultShell()
	}
	if opts.Rows == 0 {
		opts.Rows = 24
	}
	if opts.Cols == 0 {
		opts.Cols = 80
	}

	cmd := exec.Command(opts.Command, opts.Args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	ptmx, err := startWithSize(cmd, opts.Rows, opts.Cols)
	if err != nil {
		return nil, fmt.Errorf("spawn pty: %w", err)
	}

	s := &Session{
		cmd:  cmd,
		ptmx: ptmx,
		rows: opts.Rows,
		cols: opts.Cols,
		done: make(chan struct{}),
	}
	go s.reap()
	return s, nil
}

// reap waits for the child exactly once, records its exit code, and marks
// the session dead. All other liveness checks observe s.done.
func (s *Session) reap() {
	err := s.cmd.Wait()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}
	s.once.Do(func() {
		s.exit = code
		close(s.done)
	})
}

// Alive reports whether the child is still running. Non-blocking.
func (s *Session) Alive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the child exits and returns its exit code.
func (s *Session) Wait() int {
	<-s.done
	return s.exit
}

// Done returns a channel closed when the child exits.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Pid returns the child process identifier.
func (s *Session) Pid() int {
	if s.cmd.Process == nil {
		return -1
	}
	return s.cmd.Process.Pid
}

// Input returns the writer feeding the child's input. Bytes written here
// arrive as if typed at the terminal.
func (s *Session) Input() io.Writer {
	return s.ptmx
}

// Output returns the reader draining the child's output. Only the output
// relay should read from it.
func (s *Session) Output() io.Reader {
	return s.ptmx
}

// Dims returns the last-applied PTY dimensions.
func (s *Session) Dims() (rows, cols uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, s.cols
}

// Resize propagates new dimensions to the OS PTY. Resizes are idempotent;
// out-of-order calls converge on the last applied dimensions. Returns
// ErrNotRunning if the child already exited.
func (s *Session) Resize(rows, cols uint16) error {
	if !s.Alive() {
		return ErrNotRunning
	}
	if rows == 0 || cols == 0 {
		return fmt.Errorf("resize to %dx%d: dimensions must be positive", rows, cols)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := setSize(s.ptmx, rows, cols); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	s.rows, s.cols = rows, cols
	return nil
}

// Terminate sends a hang-up signal to the child's process group, waits
// briefly, and escalates to a forceful kill if the child has not exited.
// Idempotent: terminating a dead session is a no-op.
func (s *Session) Terminate() {
	if !s.Alive() {
		return
	}
	_ = s.signalHangup()

	select {
	case <-s.done:
	case <-time.After(terminateGrace):
		_ = s.signalKill()
		<-s.done
	}
}

// Close terminates the child and releases the PTY master. Closing the
// master unblocks any pending relay read with EOF.
func (s *Session) Close() error {
	s.Terminate()
	if err := s.ptmx.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("close pty master: %w", err)
	}
	return nil
}
