// Package sender publishes frame snapshots.
//
// A snapshot is a frame.DTO: a detached copy of a frame's fields and
// values. [HTTPSender] POSTs it as JSON to an ingestion service, optionally
// compressed with gzip or zstd. [WriterSender] writes one JSON line per
// snapshot, which the CLI uses to print to stdout.
//
// # Usage
//
//	s := sender.NewHTTPSender(http.DefaultClient, logger)
//
//	md := sender.Metadata{
//	    Source:     "/var/log/rows.ndjson",
//	    AuthKey:    "api-key",
//	    ServiceURL: "https://api.example.com",
//	}
//
//	if err := s.Send(ctx, snapshot, md); err != nil {
//	    return err
//	}
//
// # Custom Senders
//
// Implement the Sender interface to publish elsewhere.
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
package sender
