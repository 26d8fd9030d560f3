package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultJournalFile is the journal path used when none is configured.
const DefaultJournalFile = "api_logs.txt"

// Redacted replaces secret values in journal bodies.
const Redacted = "[REDACTED]"

// secretFields are JSON keys whose values never reach the journal.
var secretFields = map[string]bool{
	"secret":     true,
	"secret_key": true,
	"secretKey":  true,
}

// FileJournal appends one JSON record per request and per response to a file.
// It is safe for concurrent use. Close waits for in-flight records, and
// records written after Close are dropped.
type FileJournal struct {
	mu     sync.RWMutex
	closed bool
	closer io.Closer
	logger zerolog.Logger
}

// NewFileJournal opens (creating if needed) path for appending.
func NewFileJournal(path string) (*FileJournal, error) {
	if path == "" {
		path = DefaultJournalFile
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	j := NewWriterJournal(f)
	j.closer = f
	return j, nil
}

// NewWriterJournal writes journal records to w.
func NewWriterJournal(w io.Writer) *FileJournal {
	return &FileJournal{
		logger: zerolog.New(zerolog.SyncWriter(w)).With().Timestamp().Logger(),
	}
}

// Startup records a server start marker.
func (j *FileJournal) Startup() {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}
	j.logger.Info().Str("event", "startup").Msg("server started")
}

// Request records an incoming request. Secret fields in body are redacted.
func (j *FileJournal) Request(route, method, uri string, body []byte) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}
	ev := j.logger.Info().
		Str("event", "request").
		Str("route", route).
		Str("method", method).
		Str("uri", uri)
	withBody(ev, body).Msg("request")
}

// Response records the response sent for route.
func (j *FileJournal) Response(route string, status int, body []byte) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}
	ev := j.logger.Info().
		Str("event", "response").
		Str("route", route).
		Int("status", status)
	withBody(ev, body).Msg("response")
}

// Close closes the underlying file, if any.
func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	if j.closer == nil {
		return nil
	}
	err := j.closer.Close()
	j.closer = nil
	return err
}

// withBody attaches body to ev. Bodies that are not JSON are recorded by
// size only, since they cannot be scanned for secrets. Numbers keep their
// original text.
func withBody(ev *zerolog.Event, body []byte) *zerolog.Event {
	if len(body) == 0 {
		return ev
	}
	v, err := decodeJSON(body)
	if err != nil {
		return ev.Int("body_len", len(body))
	}
	redacted, err := json.Marshal(Redact(v))
	if err != nil {
		return ev.Int("body_len", len(body))
	}
	return ev.RawJSON("body", redacted)
}

// decodeJSON decodes a single JSON value, keeping numbers as json.Number.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// Redact returns v with the value of every secret field, at any depth,
// replaced by Redacted.
func Redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if secretFields[k] {
				out[k] = Redacted
				continue
			}
			out[k] = Redact(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Redact(val)
		}
		return out
	default:
		return v
	}
}

// NopJournal discards everything.
type NopJournal struct{}

func (NopJournal) Startup()                                        {}
func (NopJournal) Request(route, method, uri string, body []byte) {}
func (NopJournal) Response(route string, status int, body []byte) {}
func (NopJournal) Close() error                                    { return nil }
