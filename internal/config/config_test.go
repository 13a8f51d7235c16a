package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xl3ctl.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
in_port = "LCXL3 1 MIDI Out"
out_port = "LCXL3 1 MIDI In"
ack_timeout = "750ms"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InPort != "LCXL3 1 MIDI Out" || cfg.OutPort != "LCXL3 1 MIDI In" {
		t.Fatalf("ports not applied: %+v", cfg)
	}
	if cfg.AuxPort != "" {
		t.Fatalf("aux port should stay empty")
	}
	if cfg.Session.AckTimeout != 750*time.Millisecond {
		t.Fatalf("ack_timeout not applied: %v", cfg.Session.AckTimeout)
	}
	// Keys absent from the file keep their defaults.
	def := Default()
	if cfg.Session.PageTimeout != def.Session.PageTimeout || cfg.Session.HandshakeTimeout != def.Session.HandshakeTimeout {
		t.Fatalf("defaults clobbered: %+v", cfg.Session)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `page_timeout = "soon"`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
