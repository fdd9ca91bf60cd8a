package framekit

import (
	"context"
	"fmt"

	"github.com/bft-labs/framekit/pkg/log"
)

// Plugin extends a Streamer with work that shares its lifetime.
//
// Initialize is called from Start, in registration order, before any rows
// are read. The context is canceled when the stream ends. Shutdown is
// called from Stop in reverse order.
type Plugin interface {
	Name() string
	Initialize(ctx context.Context, cfg PluginConfig) error
	Shutdown(ctx context.Context) error
}

// FrameControl is the part of a Streamer that plugins may drive.
type FrameControl interface {
	Len() int
	SetCapacity(capacity int) error
}

// PluginConfig is passed to Plugin.Initialize.
type PluginConfig struct {
	File       string
	StateDir   string
	ServiceURL string
	Logger     log.Logger
	Frame      FrameControl
}

// BasePlugin provides no-op lifecycle methods for embedding.
type BasePlugin struct{}

func (BasePlugin) Name() string                                   { return "base" }
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }
func (BasePlugin) Shutdown(context.Context) error                 { return nil }

// WithPlugin registers a plugin. Plugins are initialized in registration
// order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// initPlugins initializes plugins in order. A panicking plugin is reported
// as an error.
func (s *Streamer) initPlugins(ctx context.Context) error {
	cfg := PluginConfig{
		File:       s.config.File,
		StateDir:   s.config.StateDir,
		ServiceURL: s.config.ServiceURL,
		Logger:     s.logger,
		Frame:      s,
	}
	for i, p := range s.plugins {
		if err := safeInit(ctx, p, cfg); err != nil {
			s.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			s.shutdownPlugins(s.plugins[:i])
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		s.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}
	return nil
}

// shutdownPlugins shuts down plugins in reverse order, logging failures.
func (s *Streamer) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := safeShutdown(ctx, p); err != nil {
			s.logger.Warn("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
		}
	}
}

func safeInit(ctx context.Context, p Plugin, cfg PluginConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Initialize(ctx, cfg)
}

func safeShutdown(ctx context.Context, p Plugin) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Shutdown(ctx)
}

var _ FrameControl = (*Streamer)(nil)
