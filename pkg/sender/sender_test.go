package sender

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/bft-labs/framekit/pkg/frame"
)

func testSnapshot() frame.DTO {
	return frame.DTO{
		Name: "cpu",
		Fields: []frame.FieldDTO{
			{Name: "time", Type: frame.FieldTypeTime, Values: []any{"2024-01-01T00:00:00Z"}},
			{Name: "value", Type: frame.FieldTypeNumber, Values: []any{1.5}},
		},
	}
}

type captured struct {
	mu      sync.Mutex
	path    string
	header  http.Header
	body    []byte
	decoded frame.DTO
}

func newServer(t *testing.T, status int, c *captured) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)

		var plain []byte
		switch r.Header.Get("Content-Encoding") {
		case "gzip":
			zr, err := gzip.NewReader(bytes.NewReader(raw))
			if err != nil {
				t.Errorf("gzip reader: %v", err)
				return
			}
			plain, _ = io.ReadAll(zr)
		case "zstd":
			dec, err := zstd.NewReader(nil)
			if err != nil {
				t.Errorf("zstd reader: %v", err)
				return
			}
			plain, err = dec.DecodeAll(raw, nil)
			dec.Close()
			if err != nil {
				t.Errorf("zstd decode: %v", err)
				return
			}
		default:
			plain = raw
		}

		c.mu.Lock()
		c.path = r.URL.Path
		c.header = r.Header.Clone()
		c.body = plain
		_ = gojson.Unmarshal(plain, &c.decoded)
		c.mu.Unlock()

		w.WriteHeader(status)
		if status/100 != 2 {
			_, _ = w.Write([]byte("nope"))
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTPSender_Send(t *testing.T) {
	for _, comp := range []Compression{CompressionNone, CompressionGzip, CompressionZstd} {
		t.Run("compression="+string(comp), func(t *testing.T) {
			var c captured
			ts := newServer(t, http.StatusOK, &c)

			s := NewHTTPSender(ts.Client(), nil, WithCompression(comp))
			md := Metadata{
				Source:     "/data/rows.ndjson",
				Rows:       42,
				Hostname:   "host-1",
				OSArch:     "linux/amd64",
				AuthKey:    "secret",
				ServiceURL: ts.URL,
			}
			if err := s.Send(context.Background(), testSnapshot(), md); err != nil {
				t.Fatalf("Send: %v", err)
			}

			c.mu.Lock()
			defer c.mu.Unlock()

			if c.path != "/v1/frames" {
				t.Errorf("path = %q, want /v1/frames", c.path)
			}
			wantHeaders := map[string]string{
				"Authorization":     "Bearer secret",
				"Content-Type":      "application/json",
				"Content-Encoding":  string(comp),
				"X-Agent-Hostname":  "host-1",
				"X-Agent-Osarch":    "linux/amd64",
				"X-Framekit-Source": "/data/rows.ndjson",
				"X-Framekit-Rows":   "42",
			}
			for k, want := range wantHeaders {
				if got := c.header.Get(k); got != want {
					t.Errorf("header %s = %q, want %q", k, got, want)
				}
			}
			if c.decoded.Name != "cpu" || len(c.decoded.Fields) != 2 {
				t.Errorf("decoded body = %+v", c.decoded)
			}
			if c.decoded.Fields[1].Values[0] != 1.5 {
				t.Errorf("value = %v", c.decoded.Fields[1].Values[0])
			}
		})
	}
}

func TestHTTPSender_ServerError(t *testing.T) {
	var c captured
	ts := newServer(t, http.StatusInternalServerError, &c)

	s := NewHTTPSender(ts.Client(), nil)
	err := s.Send(context.Background(), testSnapshot(), Metadata{ServiceURL: ts.URL})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "nope") {
		t.Errorf("error = %v", err)
	}
}

func TestHTTPSender_NoServiceURL(t *testing.T) {
	s := NewHTTPSender(nil, nil)
	if err := s.Send(context.Background(), testSnapshot(), Metadata{}); !errors.Is(err, ErrNoServiceURL) {
		t.Fatalf("Send = %v, want ErrNoServiceURL", err)
	}
}

type failingClient struct{}

func (failingClient) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestHTTPSender_TransportError(t *testing.T) {
	s := NewHTTPSender(failingClient{}, nil)
	err := s.Send(context.Background(), testSnapshot(), Metadata{ServiceURL: "http://example.invalid"})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("Send = %v", err)
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in      string
		want    Compression
		wantErr bool
	}{
		{"", CompressionNone, false},
		{"none", CompressionNone, false},
		{"gzip", CompressionGzip, false},
		{"zstd", CompressionZstd, false},
		{"brotli", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseCompression(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriterSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSender(&buf)
	ctx := context.Background()

	if err := s.Send(ctx, testSnapshot(), Metadata{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Send(ctx, frame.DTO{Fields: []frame.FieldDTO{}}, Metadata{}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	var got frame.DTO
	if err := gojson.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "cpu" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestFunc(t *testing.T) {
	called := false
	var s Sender = Func(func(context.Context, frame.DTO, Metadata) error {
		called = true
		return nil
	})
	_ = s.Send(context.Background(), frame.DTO{}, Metadata{})
	if !called {
		t.Error("Func was not called")
	}
}
