package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/bft-labs/framekit/internal/cliconfig"
	"github.com/bft-labs/framekit/pkg/frame"
	"github.com/bft-labs/framekit/pkg/framekit"
	logAdapter "github.com/bft-labs/framekit/pkg/log"
	"github.com/bft-labs/framekit/pkg/source"
)

// inspectCommand loads a whole file into an unbounded frame and prints its
// fields and the first rows.
type inspectCommand struct {
	format    string
	header    bool
	delimiter string
	limit     int
	logLevel  string
}

func newInspectCommand() *cobra.Command {
	ic := &inspectCommand{format: "json", delimiter: ",", limit: 10, logLevel: "warn"}

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the inferred fields and first rows of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ic.run(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&ic.format, "format", ic.format, "row format: json, ndjson or csv")
	f.BoolVar(&ic.header, "header", ic.header, "treat the first CSV line as field names")
	f.StringVar(&ic.delimiter, "delimiter", ic.delimiter, "CSV delimiter")
	f.IntVar(&ic.limit, "limit", ic.limit, "rows to print (0 prints none)")
	f.StringVar(&ic.logLevel, "log-level", ic.logLevel, "log level: debug, info, warn or error")
	return cmd
}

func (ic *inspectCommand) run(cmd *cobra.Command, path string) error {
	format, err := source.ParseFormat(ic.format)
	if err != nil {
		return err
	}
	comma := []rune(ic.delimiter)
	if len(comma) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", ic.delimiter)
	}

	logger := logAdapter.NewZerologAdapterWithLogger(cliconfig.Logger(ic.logLevel))

	rows, err := source.ReadAll(cmd.Context(), path, source.Options{
		Format: format,
		Header: ic.header,
		Comma:  comma[0],
	}, logger)
	if err != nil {
		return err
	}

	m, err := frame.NewMutableFrame(nil, frame.WithLogger(logger))
	if err != nil {
		return err
	}
	m.Name = path
	applied := framekit.ApplyRows(m, rows, logger)

	cache := frame.NewFieldCache(m.Frame(), frame.WithCacheLogger(logger))
	return ic.print(cmd.OutOrStdout(), m, cache, applied)
}

func (ic *inspectCommand) print(w io.Writer, m *frame.MutableFrame, cache *frame.FieldCache, applied int) error {
	bold := color.New(color.Bold)

	bold.Fprintln(w, "Frame:")
	fmt.Fprintf(w, "\tname: %s, rows: %s, applied: %s, fields: %d\n",
		m.Name,
		humanize.Comma(int64(m.Len())),
		humanize.Comma(int64(applied)),
		len(cache.Fields()),
	)
	if dups := cache.Duplicates(); len(dups) > 0 {
		fmt.Fprintf(w, "\tduplicate names: %v\n", dups)
	}

	bold.Fprintln(w, "Fields:")
	for i, f := range cache.Fields() {
		fmt.Fprintf(w, "\t%d. name: %s, type: %s, length: %s\n",
			i, f.Name, f.Type, humanize.Comma(int64(f.Len())))
	}

	n := min(ic.limit, m.Len())
	if n <= 0 {
		return nil
	}
	bold.Fprintf(w, "Rows (first %d):\n", n)
	for i := 0; i < n; i++ {
		row, err := m.Get(i)
		if err != nil {
			return err
		}
		b, err := gojson.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal row %d: %w", i, err)
		}
		fmt.Fprintf(w, "\t%s\n", b)
	}
	return nil
}
