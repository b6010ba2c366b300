package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Trust != "always-ask" {
		t.Errorf("default trust = %q, want always-ask", cfg.Trust)
	}
	if cfg.Rows != 24 || cfg.Cols != 80 {
		t.Errorf("default dims = %dx%d, want 24x80", cfg.Rows, cfg.Cols)
	}
}

func TestConfigPath(t *testing.T) {
	t.Run("honors AGENTPANE_HOME", func(t *testing.T) {
		t.Setenv("AGENTPANE_HOME", "/tmp/ap-home")
		want := filepath.Join("/tmp/ap-home", "config.yaml")
		if got := ConfigPath(); got != want {
			t.Errorf("ConfigPath() = %q, want %q", got, want)
		}
	})

	t.Run("honors XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("AGENTPANE_HOME", "")
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		want := filepath.Join("/tmp/xdg", "agentpane", "config.yaml")
		if got := ConfigPath(); got != want {
			t.Errorf("ConfigPath() = %q, want %q", got, want)
		}
	})
}

func TestLoadFrom(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadFrom failed: %v", err)
		}
		if cfg.Trust != "always-ask" {
			t.Errorf("trust = %q, want default always-ask", cfg.Trust)
		}
	})

	t.Run("parses yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		raw := "command: fish\ntrust: ask-first\nrows: 40\ncols: 120\n"
		if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("LoadFrom failed: %v", err)
		}
		if cfg.Command != "fish" || cfg.Trust != "ask-first" || cfg.Rows != 40 || cfg.Cols != 120 {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("rejects bad trust level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("trust: maybe\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Error("expected error for invalid trust level")
		}
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Command = "zsh"
	cfg.Trust = "always-allow"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Command != "zsh" || loaded.Trust != "always-allow" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := DefaultConfig().SaveTo(path); err != nil {
		t.Fatal(err)
	}

	changed := make(chan *Config, 4)
	w, err := Watch(path, func(c *Config) { changed <- c })
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	cfg := DefaultConfig()
	cfg.Trust = "always-allow"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-changed:
			if got.Trust == "always-allow" {
				t.Log("[TEST] Watcher delivered updated trust level")
				return
			}
		case <-deadline:
			t.Fatal("watcher never delivered the updated config")
		}
	}
}
