package framekit

import (
	"fmt"

	"github.com/bft-labs/framekit/pkg/frame"
	"github.com/bft-labs/framekit/pkg/log"
	"github.com/bft-labs/framekit/pkg/source"
)

// ApplyRows adds rows to m and returns the number of data rows added.
//
// Keyed rows go through Add, creating fields for unseen keys. A header row
// creates one field per name, in order, skipping names m already has.
// Positional rows go through AppendRow. Rows that m rejects are logged and
// skipped.
func ApplyRows(m *frame.MutableFrame, rows []source.Row, logger log.Logger) int {
	logger = log.OrNoop(logger)
	n := 0
	for _, row := range rows {
		var err error
		switch {
		case row.Header:
			err = applyHeader(m, row.Values)
		case row.Object != nil:
			err = m.Add(row.Object, true)
		case row.Values != nil:
			err = m.AppendRow(row.Values)
		default:
			continue
		}
		if err != nil {
			logger.Warn("row rejected", log.Err(err), log.Bool("header", row.Header))
			continue
		}
		if !row.Header {
			n++
		}
	}
	return n
}

func applyHeader(m *frame.MutableFrame, names []any) error {
	for i, v := range names {
		name := fmt.Sprint(v)
		if name == "" {
			name = fmt.Sprintf("Field %d", i+1)
		}
		alt := fmt.Sprintf("%s %d", name, i+1)

		// A header replayed on resume names fields that already exist.
		if fields := m.Fields(); i < len(fields) && (fields[i].Name == name || fields[i].Name == alt) {
			continue
		}
		if _, exists := m.Field(name); exists {
			name = alt
		}
		if _, err := m.AddField(frame.FieldSpec{Name: name}); err != nil {
			return err
		}
	}
	return nil
}
