package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Yulfic/uptime-status/internal/models"
)

// Log is an append-only store of probe events, one JSON object per line.
// Appends are serialized and line-atomic; readers tolerate a concurrently
// growing file.
type Log struct {
	mu   sync.Mutex
	path string
}

// Open prepares the event log at the given path, creating the data
// directory if needed. The file itself is created lazily on first append.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}
	return &Log{path: path}, nil
}

// Path returns the location of the underlying file.
func (l *Log) Path() string {
	return l.path
}

// Append writes one probe event as a single line. Each call opens the file
// in append mode so a crash never leaves a partially initialised handle
// behind; the single write keeps the line atomic for concurrent readers.
func (l *Log) Append(ev models.ProbeEvent) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ReadSince returns all events with ts_utc >= since, in file order.
// Callers must not assume the result is sorted by timestamp. Blank and
// unparseable lines are skipped; only I/O failures are returned as errors.
// A missing file yields an empty result.
func (l *Log) ReadSince(since int64) ([]models.ProbeEvent, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	var (
		events  []models.ProbeEvent
		skipped int
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev models.ProbeEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			skipped++
			continue
		}
		if ev.TSUTC >= since {
			events = append(events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan event log: %w", err)
	}
	if skipped > 0 {
		log.Printf("event log: skipped %d malformed line(s)", skipped)
	}
	return events, nil
}
