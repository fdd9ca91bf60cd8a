package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly types. Durations are
// strings; pointers distinguish "unset" from zero.
type FileConfig struct {
	File            string `toml:"file"`
	Name            string `toml:"name"`
	Format          string `toml:"format"`
	Header          *bool  `toml:"header"`
	Delimiter       string `toml:"delimiter"`
	Capacity        *int   `toml:"capacity"`
	Append          string `toml:"append"`
	StateDir        string `toml:"state_dir"`
	ServiceURL      string `toml:"service_url"`
	AuthKey         string `toml:"auth_key"`
	Compression     string `toml:"compression"`
	PollInterval    string `toml:"poll_interval"`
	PublishInterval string `toml:"publish_interval"`
	HardInterval    string `toml:"hard_interval"`
	HTTPTimeout     string `toml:"http_timeout"`
	MaxBatchRows    int    `toml:"max_batch_rows"`
	Once            *bool  `toml:"once"`
	Watch           *bool  `toml:"watch"`
	LogLevel        string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.framekit/config.toml, or "" if the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".framekit", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies file values to cfg, leaving explicitly set flags
// alone.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", fc.File, &cfg.File)
	s.setString("name", fc.Name, &cfg.Name)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("delimiter", fc.Delimiter, &cfg.Comma)
	s.setString("append", fc.Append, &cfg.Append)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)
	s.setString("compression", fc.Compression, &cfg.Compression)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("publish-interval", fc.PublishInterval, &cfg.PublishInterval); err != nil {
		return err
	}
	if err := s.setDuration("hard-interval", fc.HardInterval, &cfg.HardInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setIntPtr("capacity", fc.Capacity, &cfg.Capacity)
	s.setInt("max-batch-rows", fc.MaxBatchRows, &cfg.MaxBatchRows)

	s.setBool("header", fc.Header, &cfg.Header)
	s.setBool("once", fc.Once, &cfg.Once)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists reports whether a file exists at p.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
