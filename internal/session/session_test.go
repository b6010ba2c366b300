//go:build unix

package session

import (
	"strings"
	"testing"
	"time"

	"github.com/Dicklesworthstone/agentpane/internal/vterm"
)

func TestSpawn(t *testing.T) {
	t.Run("spawns with defaults", func(t *testing.T) {
		s, err := Spawn(Options{Command: "cat"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		if !s.Alive() {
			t.Error("expected session to be alive after spawn")
		}
		if s.Pid() <= 0 {
			t.Errorf("expected positive pid, got %d", s.Pid())
		}
		rows, cols := s.Dims()
		if rows != 24 || cols != 80 {
			t.Errorf("expected default 24x80, got %dx%d", rows, cols)
		}
		t.Logf("[TEST] Spawned cat with pid %d", s.Pid())
	})

	t.Run("spawn failure surfaces as error", func(t *testing.T) {
		_, err := Spawn(Options{Command: "/nonexistent/binary/zzz"})
		if err == nil {
			t.Fatal("expected error spawning nonexistent binary")
		}
		t.Logf("[TEST] Spawn error: %v", err)
	})

	t.Run("custom dimensions", func(t *testing.T) {
		s, err := Spawn(Options{Command: "cat", Rows: 40, Cols: 120})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		rows, cols := s.Dims()
		if rows != 40 || cols != 120 {
			t.Errorf("expected 40x120, got %dx%d", rows, cols)
		}
	})
}

func TestResize(t *testing.T) {
	t.Run("propagates new dimensions", func(t *testing.T) {
		s, err := Spawn(Options{Command: "cat"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		if err := s.Resize(40, 120); err != nil {
			t.Fatalf("Resize failed: %v", err)
		}
		rows, cols := s.Dims()
		if rows != 40 || cols != 120 {
			t.Errorf("expected 40x120 after resize, got %dx%d", rows, cols)
		}
	})

	t.Run("rejects zero dimensions", func(t *testing.T) {
		s, err := Spawn(Options{Command: "cat"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		if err := s.Resize(0, 80); err == nil {
			t.Error("expected error resizing to zero rows")
		}
	})

	t.Run("dead session returns ErrNotRunning", func(t *testing.T) {
		s, err := Spawn(Options{Command: "true"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		s.Wait()
		if err := s.Resize(40, 120); err != ErrNotRunning {
			t.Errorf("expected ErrNotRunning, got %v", err)
		}
	})
}

func TestTerminate(t *testing.T) {
	t.Run("kills a long-running child", func(t *testing.T) {
		s, err := Spawn(Options{Command: "sleep", Args: []string{"30"}})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		start := time.Now()
		s.Terminate()
		elapsed := time.Since(start)

		if s.Alive() {
			t.Error("expected session dead after Terminate")
		}
		if elapsed > 3*time.Second {
			t.Errorf("Terminate took too long: %v", elapsed)
		}
		t.Logf("[TEST] Terminate completed in %v", elapsed)
	})

	t.Run("idempotent on dead session", func(t *testing.T) {
		s, err := Spawn(Options{Command: "true"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		s.Wait()
		s.Terminate()
		s.Terminate()
		t.Log("[TEST] Double terminate on dead session is a no-op")
	})
}

func TestWaitExitCode(t *testing.T) {
	t.Run("zero on success", func(t *testing.T) {
		s, err := Spawn(Options{Command: "true"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		if code := s.Wait(); code != 0 {
			t.Errorf("expected exit code 0, got %d", code)
		}
	})

	t.Run("nonzero on failure", func(t *testing.T) {
		s, err := Spawn(Options{Command: "false"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		if code := s.Wait(); code == 0 {
			t.Error("expected nonzero exit code")
		}
	})
}

// waitForLine polls the screen until a line containing want appears.
func waitForLine(t *testing.T, screen vterm.Screen, want string, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	var seen uint64
	for time.Now().Before(deadline) {
		if seq := screen.Changes(); seq != seen {
			seen = seq
			for _, line := range screen.Lines() {
				if strings.Contains(line, want) {
					return true
				}
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestRelay(t *testing.T) {
	t.Run("echoed input reaches the screen", func(t *testing.T) {
		s, err := Spawn(Options{Command: "cat"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		screen := vterm.New(24, 80)
		relay := StartRelay(s, screen, nil)

		if _, err := s.Input().Write([]byte("hello\n")); err != nil {
			t.Fatalf("write to pty input failed: %v", err)
		}

		if !waitForLine(t, screen, "hello", 5*time.Second) {
			t.Errorf("expected %q on screen, got lines: %q", "hello", screen.Lines()[:3])
		}

		s.Close()
		relay.Join()
	})

	t.Run("exit callback fires on EOF", func(t *testing.T) {
		s, err := Spawn(Options{Command: "sh", Args: []string{"-c", "echo bye"}})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		screen := vterm.New(24, 80)
		exited := make(chan struct{})
		relay := StartRelay(s, screen, func() { close(exited) })

		select {
		case <-exited:
			t.Log("[TEST] Exit callback fired")
		case <-time.After(5 * time.Second):
			t.Fatal("exit callback did not fire within 5s")
		}
		relay.Join()
	})

	t.Run("no bytes ingested after teardown", func(t *testing.T) {
		s, err := Spawn(Options{Command: "cat"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}

		screen := vterm.New(24, 80)
		relay := StartRelay(s, screen, nil)

		s.Close()
		relay.Join()

		seq := screen.Changes()
		time.Sleep(50 * time.Millisecond)
		if screen.Changes() != seq {
			t.Error("screen changed after relay stopped")
		}
	})
}

func TestPasswordMode(t *testing.T) {
	t.Run("normal shell is not password mode", func(t *testing.T) {
		s, err := Spawn(Options{Command: "cat"})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		if s.PasswordMode() {
			t.Error("cat session should not report password mode")
		}
	})

	t.Run("echo off with canonical mode reads as password entry", func(t *testing.T) {
		s, err := Spawn(Options{Command: "sh", Args: []string{"-c", "stty -echo icanon; sleep 5"}})
		if err != nil {
			t.Fatalf("Spawn failed: %v", err)
		}
		defer s.Close()

		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			if s.PasswordMode() {
				t.Log("[TEST] Password mode detected")
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		t.Error("password mode not detected after stty -echo icanon")
	})
}
