// Package audit keeps an in-memory trail of validation passes: which
// operation ran, against which cluster, and how it came out. The trail is
// a fixed-size ring, so long-running callers never grow it unbounded.
package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Operation identifies the validation entry point that produced an event
type Operation string

const (
	OperationCreate        Operation = "create"
	OperationLinkList      Operation = "link_list"
	OperationTransport     Operation = "transport"
	OperationTotem         Operation = "totem"
	OperationQuorum        Operation = "quorum"
	OperationQdeviceAdd    Operation = "qdevice_add"
	OperationQdeviceUpdate Operation = "qdevice_update"
	OperationConstraint    Operation = "constraint"
)

// Status represents the outcome of a validation pass
type Status string

const (
	StatusClean    Status = "clean"
	StatusWarnings Status = "warnings"
	StatusErrors   Status = "errors"
)

// StatusFor derives the pass outcome from report-item counts
func StatusFor(errorCount, warningCount int) Status {
	switch {
	case errorCount > 0:
		return StatusErrors
	case warningCount > 0:
		return StatusWarnings
	default:
		return StatusClean
	}
}

// Event represents a single audit log entry
type Event struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Operation    Operation      `json:"operation"`
	Cluster      string         `json:"cluster,omitempty"`
	Transport    string         `json:"transport,omitempty"`
	Status       Status         `json:"status"`
	ErrorCount   int            `json:"error_count"`
	WarningCount int            `json:"warning_count"`
	Forced       bool           `json:"forced,omitempty"`
	Codes        []string       `json:"codes,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Filter represents filtering criteria for audit events
type Filter struct {
	Operation Operation // empty = all operations
	Cluster   string
	Status    Status
	StartTime *time.Time
	EndTime   *time.Time
}

// Logger is the interface for audit logging implementations
type Logger interface {
	// Log records an audit event
	Log(event *Event) error

	// GetEventCount returns the number of events logged
	GetEventCount() int64
}

// AuditLogger manages audit log events with a circular buffer
type AuditLogger struct {
	events     []*Event
	bufferSize int
	index      int
	count      int
	mu         sync.RWMutex
}

// NewAuditLogger creates a new audit logger with specified buffer size
func NewAuditLogger(bufferSize int) *AuditLogger {
	return &AuditLogger{
		events:     make([]*Event, bufferSize),
		bufferSize: bufferSize,
		index:      0,
		count:      0,
	}
}

// Log records an audit event
func (l *AuditLogger) Log(event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Set timestamp and ID if not set
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	// Store in circular buffer
	l.events[l.index] = event
	l.index = (l.index + 1) % l.bufferSize

	// Track total count (up to buffer size)
	if l.count < l.bufferSize {
		l.count++
	}

	return nil
}

// GetEvents retrieves audit events with optional filtering
func (l *AuditLogger) GetEvents(filter *Filter) []*Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Event, 0, l.count)

	for i := 0; i < l.count; i++ {
		// Oldest first; map the logical position into the ring
		idx := (l.index - l.count + i + l.bufferSize) % l.bufferSize
		event := l.events[idx]

		if event == nil {
			continue
		}

		if filter != nil {
			if filter.Operation != "" && event.Operation != filter.Operation {
				continue
			}
			if filter.Cluster != "" && event.Cluster != filter.Cluster {
				continue
			}
			if filter.Status != "" && event.Status != filter.Status {
				continue
			}
			if filter.StartTime != nil && event.Timestamp.Before(*filter.StartTime) {
				continue
			}
			if filter.EndTime != nil && event.Timestamp.After(*filter.EndTime) {
				continue
			}
		}

		result = append(result, event)
	}

	return result
}

// GetRecentEvents returns the N most recent events, newest first
func (l *AuditLogger) GetRecentEvents(n int) []*Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > l.count {
		n = l.count
	}

	result := make([]*Event, 0, n)
	for i := 0; i < n; i++ {
		idx := (l.index - 1 - i + l.bufferSize) % l.bufferSize
		if l.events[idx] != nil {
			result = append(result, l.events[idx])
		}
	}

	return result
}

// GetEventCount returns the total number of events currently stored
func (l *AuditLogger) GetEventCount() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(l.count)
}

// Clear removes all events from the logger
func (l *AuditLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = make([]*Event, l.bufferSize)
	l.index = 0
	l.count = 0
}

// NewEvent creates an event for a finished validation pass
func NewEvent(operation Operation, cluster string, errorCount, warningCount int) *Event {
	return &Event{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		Operation:    operation,
		Cluster:      cluster,
		Status:       StatusFor(errorCount, warningCount),
		ErrorCount:   errorCount,
		WarningCount: warningCount,
	}
}

// String returns a human-readable representation of an event
func (e *Event) String() string {
	cluster := e.Cluster
	if cluster == "" {
		cluster = "-"
	}
	return fmt.Sprintf("[%s] %s cluster=%s status=%s errors=%d warnings=%d",
		e.Timestamp.Format(time.RFC3339),
		e.Operation,
		cluster,
		e.Status,
		e.ErrorCount,
		e.WarningCount,
	)
}
