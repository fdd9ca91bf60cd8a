package sender

// Metadata describes where a snapshot came from. It is carried in HTTP
// headers for server-side tracking.
type Metadata struct {
	// Source is the file the frame was built from.
	Source string

	// Rows is the total number of data rows ingested so far.
	Rows uint64

	// Hostname is the agent's hostname.
	Hostname string

	// OSArch is the operating system and architecture (e.g., "linux/amd64").
	OSArch string

	// AuthKey is the API authentication key.
	AuthKey string

	// ServiceURL is the base URL of the ingestion service.
	ServiceURL string
}
