package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPath(t *testing.T) {
	t.Setenv("AGENTPANE_HOME", "/tmp/ap-logs")
	want := filepath.Join("/tmp/ap-logs", "agentpane.log")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")

	logger, closer, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	logger.Printf("first line")
	closer.Close()

	logger, closer, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	logger.Printf("second line")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "first line") || !strings.Contains(text, "second line") {
		t.Errorf("log file missing lines:\n%s", text)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Printf("dropped")
}
