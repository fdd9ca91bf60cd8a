// Package framekit streams rows from a growing file into an in-memory
// frame and publishes snapshots of it.
//
// A Streamer owns one frame: a CircularFrame holding the most recent
// Capacity rows, or an unbounded MutableFrame when Capacity is zero. Rows
// are read by a background agent, applied in batches, and published
// through a sender.Sender. Readers on other goroutines use Snapshot, Rows
// and FieldCache, which only ever observe whole batches.
//
// # Usage
//
//	cfg := framekit.DefaultConfig()
//	cfg.File = "/var/log/metrics.ndjson"
//	cfg.Capacity = 500
//
//	s, err := framekit.New(cfg, framekit.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//	defer s.Stop()
//
//	snap := s.Snapshot()
//
// # Events
//
// WithEventHandler receives lifecycle transitions and publish results.
// Handlers are called synchronously from the streaming goroutine.
//
// # Plugins
//
// Work that shares the stream's lifetime registers through WithPlugin:
//
//	import "github.com/bft-labs/framekit/plugins/configwatcher"
//
//	s, err := framekit.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{Path: cfgPath}),
//	)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package framekit
