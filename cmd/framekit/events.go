package main

import (
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/bft-labs/framekit/pkg/framekit"
)

// logEvents reports streamer events on the console logger.
type logEvents struct {
	log zerolog.Logger
}

func (h *logEvents) OnStateChange(e framekit.StateChangeEvent) {
	h.log.Debug().
		Str("from", e.Previous.String()).
		Str("to", e.Current.String()).
		Str("reason", e.Reason).
		Msg("state change")
}

func (h *logEvents) OnPublishSuccess(e framekit.PublishSuccessEvent) {
	h.log.Debug().
		Str("rows", humanize.Comma(int64(e.Rows))).
		Int("fields", e.Fields).
		Dur("took", e.Duration).
		Msg("snapshot published")
}

func (h *logEvents) OnPublishError(e framekit.PublishErrorEvent) {
	h.log.Warn().
		Err(e.Error).
		Int("rows", e.Rows).
		Bool("retryable", e.Retryable).
		Msg("publish failed")
}
