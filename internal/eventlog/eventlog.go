// Package eventlog keeps the bounded, timestamped terminal log shown at
// the bottom of the dashboard.
package eventlog

import (
	"fmt"
	"strings"
	"time"

	"threatmatrix/internal/rng"
)

// Severity tags a log entry.
type Severity uint8

const (
	SeverityCritical Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityNormal
)

// Severities lists every severity in declaration order.
var Severities = []Severity{SeverityCritical, SeverityWarning, SeverityInfo, SeverityNormal}

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityNormal:
		return "normal"
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity converts a severity name, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	for _, s := range Severities {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return SeverityNormal, fmt.Errorf("unknown severity %q", name)
}

// Template is a catalog message for one severity.
type Template struct {
	Severity Severity
	Message  string
}

// DefaultCatalog is the message catalog used when none is configured.
var DefaultCatalog = []Template{
	{SeverityCritical, "▲ CRITICAL: Unauthorized access blocked"},
	{SeverityWarning, "▼ WARNING: Unusual network pattern detected"},
	{SeverityInfo, "◈ INFO: Security patch applied"},
	{SeverityNormal, "◆ Routine scan completed"},
}

// StampLayout formats entry timestamps as HH:MM:SS.
const StampLayout = "15:04:05"

// Entry is one log line.
type Entry struct {
	Time     time.Time `json:"time"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
}

// Stamp returns the HH:MM:SS timestamp.
func (e Entry) Stamp() string {
	return e.Time.Format(StampLayout)
}

func (e Entry) String() string {
	return "[" + e.Stamp() + "] " + e.Message
}

// Log is a FIFO of entries bounded by capacity; the newest is last.
type Log struct {
	entries  []Entry
	capacity int
	catalog  []Template
	src      rng.Source
	now      func() time.Time
}

// New creates an empty log. An empty catalog falls back to DefaultCatalog
// and a nil clock to time.Now.
func New(capacity int, catalog []Template, src rng.Source, now func() time.Time) *Log {
	if capacity <= 0 {
		capacity = 1
	}
	if len(catalog) == 0 {
		catalog = DefaultCatalog
	}
	if now == nil {
		now = time.Now
	}
	return &Log{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		catalog:  catalog,
		src:      src,
		now:      now,
	}
}

// Append adds e as is, evicting the oldest entry when full.
func (l *Log) Append(e Entry) {
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, e)
}

// Add stamps message with the current time and appends it.
func (l *Log) Add(sev Severity, message string) Entry {
	e := Entry{Time: l.now(), Severity: sev, Message: message}
	l.Append(e)
	return e
}

// Emit appends a catalog message of the given severity. Severities with no
// template fall back to the whole catalog.
func (l *Log) Emit(sev Severity) Entry {
	var matches []Template
	for _, t := range l.catalog {
		if t.Severity == sev {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return l.EmitAny()
	}
	t := matches[rng.Pick(l.src, len(matches))]
	return l.Add(t.Severity, t.Message)
}

// EmitAny appends a message chosen uniformly from the whole catalog.
func (l *Log) EmitAny() Entry {
	t := l.catalog[rng.Pick(l.src, len(l.catalog))]
	return l.Add(t.Severity, t.Message)
}

// Entries returns a copy of the log, oldest first.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Cap returns the capacity.
func (l *Log) Cap() int { return l.capacity }
