package cliconfig

import "os"

// ApplyEnvConfig applies FRAMEKIT_* environment variables to cfg, leaving
// explicitly set flags alone. It returns an error for malformed values.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", os.Getenv("FRAMEKIT_FILE"), &cfg.File)
	s.setString("name", os.Getenv("FRAMEKIT_NAME"), &cfg.Name)
	s.setString("format", os.Getenv("FRAMEKIT_FORMAT"), &cfg.Format)
	s.setString("delimiter", os.Getenv("FRAMEKIT_DELIMITER"), &cfg.Comma)
	s.setString("append", os.Getenv("FRAMEKIT_APPEND"), &cfg.Append)
	s.setString("state-dir", os.Getenv("FRAMEKIT_STATE_DIR"), &cfg.StateDir)
	s.setString("service-url", os.Getenv("FRAMEKIT_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("auth-key", os.Getenv("FRAMEKIT_AUTH_KEY"), &cfg.AuthKey)
	s.setString("compression", os.Getenv("FRAMEKIT_COMPRESSION"), &cfg.Compression)
	s.setString("log-level", os.Getenv("FRAMEKIT_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("poll", os.Getenv("FRAMEKIT_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("publish-interval", os.Getenv("FRAMEKIT_PUBLISH_INTERVAL"), &cfg.PublishInterval); err != nil {
		return err
	}
	if err := s.setDuration("hard-interval", os.Getenv("FRAMEKIT_HARD_INTERVAL"), &cfg.HardInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("FRAMEKIT_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	if err := s.setCountFromString("capacity", os.Getenv("FRAMEKIT_CAPACITY"), &cfg.Capacity); err != nil {
		return err
	}
	if err := s.setIntFromString("max-batch-rows", os.Getenv("FRAMEKIT_MAX_BATCH_ROWS"), &cfg.MaxBatchRows); err != nil {
		return err
	}

	s.setBoolFromString("header", os.Getenv("FRAMEKIT_HEADER"), &cfg.Header)
	s.setBoolFromString("once", os.Getenv("FRAMEKIT_ONCE"), &cfg.Once)
	s.setBoolFromString("watch", os.Getenv("FRAMEKIT_WATCH"), &cfg.Watch)

	return nil
}
