// Package source reads rows from a growing file for ingestion into a frame.
//
// Two line formats are supported:
//
//   - [FormatJSON]: one JSON object per line (NDJSON). Rows are keyed by
//     field name and feed MutableFrame.Add.
//   - [FormatCSV]: one delimited record per line. Rows are positional and
//     feed MutableFrame.AppendRow; with Header set, the first line names the
//     fields.
//
// [FileReader] tracks its byte offset so a reader can be reopened where the
// previous one stopped. A trailing line without a newline is left for the
// next call, so rows are never split while the producer is still writing.
//
// [Watcher] wakes the consumer when the file changes instead of waiting for
// the next poll.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package source
