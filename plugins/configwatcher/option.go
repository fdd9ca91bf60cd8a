package configwatcher

import "github.com/bft-labs/framekit/pkg/framekit"

// WithConfigWatcher returns a framekit Option that enables config file
// watching.
//
// Usage:
//
//	s, err := framekit.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        Path:          "/etc/framekit/config.toml",
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) framekit.Option {
	return framekit.WithPlugin(New(cfg))
}
