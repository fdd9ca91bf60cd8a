package framekit

import (
	"github.com/bft-labs/framekit/pkg/log"
	"github.com/bft-labs/framekit/pkg/sender"
	"github.com/bft-labs/framekit/pkg/state"
)

// Option configures optional behavior of a Streamer.
type Option func(*options)

type options struct {
	logger       log.Logger
	httpClient   sender.HTTPClient
	sender       sender.Sender
	stateRepo    state.Repository
	eventHandler EventHandler
	plugins      []Plugin
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient sets the client used by the HTTP sender. Without it a
// client with Config.HTTPTimeout is used.
func WithHTTPClient(client sender.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithSender publishes snapshots through s instead of HTTP.
func WithSender(s sender.Sender) Option {
	return func(o *options) {
		o.sender = s
	}
}

// WithStateRepository stores the read cursor in repo instead of
// Config.StateDir.
func WithStateRepository(repo state.Repository) Option {
	return func(o *options) {
		o.stateRepo = repo
	}
}

// WithEventHandler sets a handler for streamer events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}
