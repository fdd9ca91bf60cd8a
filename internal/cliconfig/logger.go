package cliconfig

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bft-labs/framekit/pkg/log"
)

// Logger returns a console zerolog.Logger writing to stderr.
func Logger(level string) zerolog.Logger {
	return log.NewConsoleLogger(os.Stderr, strings.ToLower(level))
}
