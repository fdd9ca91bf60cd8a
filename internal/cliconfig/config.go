package cliconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/framekit/pkg/framekit"
	"github.com/bft-labs/framekit/pkg/sender"
	"github.com/bft-labs/framekit/pkg/source"
	"github.com/bft-labs/framekit/pkg/vector"
)

// Config holds CLI configuration for framekit.
type Config struct {
	File   string
	Name   string
	Format string
	Header bool
	Comma  string

	Capacity int
	Append   string

	StateDir string

	ServiceURL  string
	AuthKey     string
	Compression string

	PollInterval    time.Duration
	PublishInterval time.Duration
	HardInterval    time.Duration
	HTTPTimeout     time.Duration
	MaxBatchRows    int

	Once     bool
	Watch    bool
	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	d := framekit.DefaultConfig()
	return Config{
		Format:          string(d.Format),
		Comma:           ",",
		Capacity:        d.Capacity,
		Append:          string(d.Append),
		PollInterval:    d.PollInterval,
		PublishInterval: d.PublishInterval,
		HardInterval:    d.HardInterval,
		HTTPTimeout:     d.HTTPTimeout,
		MaxBatchRows:    d.MaxBatchRows,
		Watch:           d.Watch,
		LogLevel:        "info",
	}
}

// Validate checks the configuration and normalizes derived values.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("file is required")
	}
	if _, err := source.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := vector.ParseAppendMode(c.Append); err != nil {
		return err
	}
	if _, err := sender.ParseCompression(c.Compression); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if len([]rune(c.Comma)) > 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Comma)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative")
	}

	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.PublishInterval <= 0 {
		return fmt.Errorf("publish interval must be positive")
	}
	return nil
}

// Streamer converts the CLI configuration to a framekit.Config.
func (c Config) Streamer() framekit.Config {
	format, _ := source.ParseFormat(c.Format)
	mode, _ := vector.ParseAppendMode(c.Append)
	comp, _ := sender.ParseCompression(c.Compression)

	var comma rune
	if r := []rune(c.Comma); len(r) == 1 {
		comma = r[0]
	}

	return framekit.Config{
		File:            c.File,
		Name:            c.Name,
		Format:          format,
		Header:          c.Header,
		Comma:           comma,
		Capacity:        c.Capacity,
		Append:          mode,
		StateDir:        c.StateDir,
		ServiceURL:      c.ServiceURL,
		AuthKey:         c.AuthKey,
		Compression:     comp,
		PollInterval:    c.PollInterval,
		PublishInterval: c.PublishInterval,
		HardInterval:    c.HardInterval,
		HTTPTimeout:     c.HTTPTimeout,
		MaxBatchRows:    c.MaxBatchRows,
		Once:            c.Once,
		Watch:           c.Watch,
	}
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.AuthKey != "" {
		c.AuthKey = "*****"
	}
	return c
}
