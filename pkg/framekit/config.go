package framekit

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/framekit/pkg/sender"
	"github.com/bft-labs/framekit/pkg/source"
	"github.com/bft-labs/framekit/pkg/vector"
)

// Config configures a Streamer.
type Config struct {
	// File is the row file to follow. Required.
	File string

	// Name is the frame name. Defaults to the file's base name.
	Name string

	Format source.Format

	// Header treats the first CSV line as field names.
	Header bool

	// Comma is the CSV delimiter. Default: ','
	Comma rune

	// Capacity bounds the frame to the most recent rows. Zero keeps every
	// row.
	Capacity int

	// Append selects where new rows go in a bounded frame.
	Append vector.AppendMode

	// StateDir holds the read cursor. Empty keeps the cursor in memory.
	StateDir string

	// ServiceURL receives snapshots. Empty disables HTTP publishing unless
	// a sender is supplied with WithSender.
	ServiceURL  string
	AuthKey     string
	Compression sender.Compression

	PollInterval    time.Duration
	PublishInterval time.Duration
	HardInterval    time.Duration
	HTTPTimeout     time.Duration
	MaxBatchRows    int

	// Once stops the streamer after the file has been read to the end.
	Once bool

	// Watch wakes the agent on file changes instead of waiting for the
	// next poll.
	Watch bool
}

// DefaultConfig returns a Config with default values. File must be set.
func DefaultConfig() Config {
	return Config{
		Format:          source.FormatJSON,
		Comma:           ',',
		Capacity:        1000,
		Append:          vector.AppendTail,
		PollInterval:    500 * time.Millisecond,
		PublishInterval: time.Second,
		HardInterval:    10 * time.Second,
		HTTPTimeout:     30 * time.Second,
		MaxBatchRows:    1000,
		Watch:           true,
	}
}

// SetDefaults fills zero values that have a sensible default.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.Comma == 0 {
		c.Comma = d.Comma
	}
	if c.Append == "" {
		c.Append = d.Append
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.PublishInterval <= 0 {
		c.PublishInterval = d.PublishInterval
	}
	if c.HardInterval <= 0 {
		c.HardInterval = d.HardInterval
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	if c.MaxBatchRows <= 0 {
		c.MaxBatchRows = d.MaxBatchRows
	}
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("%w: file is required", ErrInvalidConfig)
	}
	if _, err := source.ParseFormat(string(c.Format)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := vector.ParseAppendMode(string(c.Append)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := sender.ParseCompression(string(c.Compression)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", ErrInvalidConfig)
	}
	if c.Header && c.Format != source.FormatCSV {
		return fmt.Errorf("%w: header requires csv format", ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}
	if c.PublishInterval <= 0 {
		return fmt.Errorf("%w: publish interval must be positive", ErrInvalidConfig)
	}
	return nil
}
