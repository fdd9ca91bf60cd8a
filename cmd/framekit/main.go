package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/framekit/internal/cliconfig"
)

const helpDescription = `
Build typed, columnar data frames from newline-delimited JSON or CSV files.

Highlights:
  - Infers field types (number, boolean, time, string) from the first values.
  - Keeps the newest rows in a bounded ring buffer, or everything when capacity is 0.
  - Follows a growing file, remembers its read cursor, and publishes snapshots.
  - Configure via file ($HOME/.framekit/config.toml), FRAMEKIT_* env, or flags.
`

var exampleUsage = strings.TrimSpace(`
  framekit tail --file events.ndjson --capacity 500
  framekit tail --file metrics.csv --format csv --header --service-url http://localhost:8080 --once
  framekit inspect --format csv --header metrics.csv
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	root := &cobra.Command{
		Use:           "framekit",
		Short:         "Build typed data frames from line-oriented files",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newTailCommand(), newInspectCommand())

	if err := root.Execute(); err != nil {
		log := cliconfig.Logger("info")
		log.Error().Err(err).Msg("framekit")
		os.Exit(1)
	}
}
