// Package framekit builds typed, columnar data frames from line-oriented
// files.
//
// Example usage:
//
//	cfg := framekit.DefaultConfig()
//	cfg.File = "/var/log/app/events.ndjson"
//	cfg.Capacity = 500
//	cfg.Once = true
//	if err := framekit.Run(context.Background(), cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// For one-off loads use Load, which reads a whole file into an unbounded
// frame.
package framekit

import (
	"context"
	"fmt"

	"github.com/bft-labs/framekit/pkg/frame"
	"github.com/bft-labs/framekit/pkg/framekit"
	"github.com/bft-labs/framekit/pkg/log"
	"github.com/bft-labs/framekit/pkg/source"
)

// Frame is an ordered collection of equal-length fields.
type Frame = frame.Frame

// Field is a named, typed column.
type Field = frame.Field

// FieldType classifies the values of a Field.
type FieldType = frame.FieldType

// MutableFrame is a frame that grows row by row.
type MutableFrame = frame.MutableFrame

// CircularFrame is a MutableFrame that keeps a bounded number of rows.
type CircularFrame = frame.CircularFrame

// FieldCache indexes the fields of a frame by name and type.
type FieldCache = frame.FieldCache

// Config holds the configuration for Run.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = framekit.Config

// Option configures optional behavior of Run.
type Option = framekit.Option

// DefaultConfig returns a Config with sensible default values.
// At minimum, File must be set before calling Run.
func DefaultConfig() Config {
	return framekit.DefaultConfig()
}

// Run streams cfg.File into a frame until ctx is canceled, or until the
// file has been read once when cfg.Once is set.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	s, err := framekit.New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	return s.Wait()
}

// Load reads every complete row of path into a new MutableFrame. Rows the
// frame rejects are skipped.
func Load(ctx context.Context, path string, opts source.Options, logger log.Logger) (*MutableFrame, error) {
	rows, err := source.ReadAll(ctx, path, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := frame.NewMutableFrame(nil, frame.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	framekit.ApplyRows(m, rows, logger)
	return m, nil
}
