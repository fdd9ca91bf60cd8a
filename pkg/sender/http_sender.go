package sender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/bft-labs/framekit/pkg/frame"
	"github.com/bft-labs/framekit/pkg/log"
)

const framesEndpoint = "/v1/frames"

// ErrNoServiceURL is returned when Metadata.ServiceURL is empty.
var ErrNoServiceURL = errors.New("sender: service URL not configured")

// Compression selects the request body encoding.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// ParseCompression converts "", "none", "gzip" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "gzip":
		return CompressionGzip, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("sender: unknown compression %q", s)
	}
}

// HTTPSender implements Sender with a JSON POST.
type HTTPSender struct {
	client      HTTPClient
	logger      log.Logger
	compression Compression
}

// HTTPOption configures an HTTPSender.
type HTTPOption func(*HTTPSender)

// WithCompression sets the request body encoding.
func WithCompression(c Compression) HTTPOption {
	return func(s *HTTPSender) { s.compression = c }
}

// NewHTTPSender creates an HTTP sender.
func NewHTTPSender(client HTTPClient, logger log.Logger, opts ...HTTPOption) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	s := &HTTPSender{
		client: client,
		logger: log.OrNoop(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send POSTs the snapshot to {ServiceURL}/v1/frames.
func (s *HTTPSender) Send(ctx context.Context, snapshot frame.DTO, metadata Metadata) error {
	if metadata.ServiceURL == "" {
		return ErrNoServiceURL
	}

	payload, err := gojson.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	body, err := s.encode(payload)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	url := metadata.ServiceURL + framesEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	osArch := metadata.OSArch
	if osArch == "" {
		osArch = runtime.GOOS + "/" + runtime.GOARCH
	}

	req.Header.Set("Content-Type", "application/json")
	if s.compression != CompressionNone {
		req.Header.Set("Content-Encoding", string(s.compression))
	}
	if metadata.AuthKey != "" {
		req.Header.Set("Authorization", "Bearer "+metadata.AuthKey)
	}
	req.Header.Set("X-Agent-Hostname", metadata.Hostname)
	req.Header.Set("X-Agent-OSArch", osArch)
	req.Header.Set("X-Framekit-Source", metadata.Source)
	req.Header.Set("X-Framekit-Rows", strconv.FormatUint(metadata.Rows, 10))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	s.logger.Debug("snapshot published",
		log.String("url", url),
		log.Int("fields", len(snapshot.Fields)),
		log.Int("rows", snapshot.Len()),
		log.Int("bytes", len(body)),
	)
	return nil
}

func (s *HTTPSender) encode(payload []byte) ([]byte, error) {
	switch s.compression {
	case CompressionGzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(payload); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(payload, nil), nil
	default:
		return payload, nil
	}
}

var _ Sender = (*HTTPSender)(nil)
