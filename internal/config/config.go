package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"xl3ctl/internal/device"
)

// Config names the MIDI ports to use and overrides session timing defaults.
type Config struct {
	InPort  string
	OutPort string
	AuxPort string

	Session device.Config
}

type fileConfig struct {
	InPort  string `toml:"in_port"`
	OutPort string `toml:"out_port"`
	AuxPort string `toml:"aux_port"`

	HandshakeTimeout string `toml:"handshake_timeout"`
	PageTimeout      string `toml:"page_timeout"`
	AckTimeout       string `toml:"ack_timeout"`
	SendGap          string `toml:"send_gap"`
	SettleDelay      string `toml:"settle_delay"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{Session: device.DefaultConfig()}
}

// Load overlays a TOML file on the defaults. Only keys present in the file
// are applied.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	if meta.IsDefined("in_port") {
		cfg.InPort = strings.TrimSpace(raw.InPort)
	}
	if meta.IsDefined("out_port") {
		cfg.OutPort = strings.TrimSpace(raw.OutPort)
	}
	if meta.IsDefined("aux_port") {
		cfg.AuxPort = strings.TrimSpace(raw.AuxPort)
	}

	for _, d := range []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"handshake_timeout", raw.HandshakeTimeout, &cfg.Session.HandshakeTimeout},
		{"page_timeout", raw.PageTimeout, &cfg.Session.PageTimeout},
		{"ack_timeout", raw.AckTimeout, &cfg.Session.AckTimeout},
		{"send_gap", raw.SendGap, &cfg.Session.SendGap},
		{"settle_delay", raw.SettleDelay, &cfg.Session.SettleDelay},
	} {
		if !meta.IsDefined(d.key) {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	return cfg, nil
}
