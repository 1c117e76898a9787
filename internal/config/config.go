// Package config reads runtime settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"quantum-fen/internal/journal"
)

// Config holds every setting shared by the local and SSH binaries.
type Config struct {
	DataDir         string `env:"QFEN_DATA_DIR"`
	DBPath          string `env:"QFEN_DB"`
	Memory          bool   `env:"QFEN_MEMORY" envDefault:"false"`
	SSHAddr         string `env:"QFEN_SSH_ADDR" envDefault:""`
	SSHPort         int    `env:"QFEN_SSH_PORT" envDefault:"2222"`
	HostKey         string `env:"QFEN_HOST_KEY"`
	LogLevel        string `env:"QFEN_LOG_LEVEL" envDefault:"info"`
	CollapseRetries int    `env:"QFEN_COLLAPSE_RETRIES" envDefault:"32"`
	Seed            int64  `env:"QFEN_SEED" envDefault:"0"`
}

// Load reads files (default ".env") into the process environment, skipping
// missing ones, then parses Config. Empty paths are filled from the data
// directory.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.fill(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fill() error {
	if c.DataDir == "" {
		dir, err := journal.DataDir()
		if err != nil {
			return fmt.Errorf("data dir: %w", err)
		}
		c.DataDir = dir
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "quantum.db")
	}
	if c.HostKey == "" {
		c.HostKey = filepath.Join(c.DataDir, "host_ed25519")
	}
	if c.CollapseRetries < 1 {
		return fmt.Errorf("QFEN_COLLAPSE_RETRIES must be positive, got %d", c.CollapseRetries)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ListenAddr joins the SSH address and port.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.SSHAddr, c.SSHPort)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
