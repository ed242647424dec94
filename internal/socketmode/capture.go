package socketmode

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/logging"
	"github.com/muurk/modalstate/internal/modalerr"
)

// CapturedEnvelope is one line of a capture file
type CapturedEnvelope struct {
	Timestamp  time.Time       `json:"timestamp"`
	Connection string          `json:"connection"`
	Direction  string          `json:"direction"`
	Type       string          `json:"type,omitempty"`
	EnvelopeID string          `json:"envelope_id,omitempty"`
	Length     int             `json:"length"`
	Body       json.RawMessage `json:"body"`
}

// recorder appends envelopes to a JSON Lines file. A zero recorder is disabled.
type recorder struct {
	mu   sync.Mutex
	path string
}

func newRecorder(dir string, started time.Time) *recorder {
	if dir == "" {
		return &recorder{}
	}
	return &recorder{
		path: filepath.Join(dir, fmt.Sprintf("capture-%s.jsonl", started.Format("20060102-150405"))),
	}
}

// record appends one envelope. Failures are logged and otherwise ignored.
func (r *recorder) record(connection, direction string, env Envelope, body []byte) {
	if r.path == "" {
		return
	}

	entry := CapturedEnvelope{
		Timestamp:  time.Now(),
		Connection: connection,
		Direction:  direction,
		Type:       env.Type,
		EnvelopeID: env.EnvelopeID,
		Length:     len(body),
		Body:       body,
	}
	if !json.Valid(body) {
		quoted, _ := json.Marshal(string(body))
		entry.Body = quoted
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logging.Error("Failed to marshal captured envelope", zap.Error(err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logging.Error("Failed to open capture file",
			zap.String("filename", r.path),
			zap.Error(err),
		)
		return
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		logging.Error("Failed to write to capture file",
			zap.String("filename", r.path),
			zap.Error(err),
		)
	}
}

// maxCaptureLine bounds a single capture line; envelopes are capped at maxMessageSize
const maxCaptureLine = 4 * maxMessageSize

// ReadCapture parses a capture file. Blank lines are skipped.
func ReadCapture(r io.Reader) ([]CapturedEnvelope, error) {
	var entries []CapturedEnvelope

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCaptureLine)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry CapturedEnvelope
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	return entries, nil
}

// Replayed is a captured envelope together with what the decoder makes of it
type Replayed struct {
	CapturedEnvelope
	// Event is nil for sent messages and for envelopes the controller ignores
	Event controller.Event
	Err   error
}

// Replay decodes every received envelope in entries
func (d Decoder) Replay(entries []CapturedEnvelope) []Replayed {
	out := make([]Replayed, 0, len(entries))
	for _, entry := range entries {
		r := Replayed{CapturedEnvelope: entry}
		if entry.Direction == "received" {
			var env Envelope
			if err := json.Unmarshal(entry.Body, &env); err != nil {
				r.Err = modalerr.NewMalformedEvent("cannot decode envelope", err)
			} else {
				r.Event, r.Err = d.Decode(env)
			}
		}
		out = append(out, r)
	}
	return out
}
