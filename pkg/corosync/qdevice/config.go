package qdevice

import (
	"errors"
	"time"
)

// Configuration errors
var (
	ErrNoQdeviceTool        = errors.New("qdevice tool path cannot be empty")
	ErrNoQnetdTool          = errors.New("qnetd tool path cannot be empty")
	ErrInvalidStatusTimeout = errors.New("status timeout must be positive")
)

// Status errors
var (
	// ErrQnetdNotRunning signals that the qnetd daemon refused the status
	// query because it is not running at all.
	ErrQnetdNotRunning = errors.New("corosync-qnetd is not running")
)

// Config defines where the quorum device tooling lives and how long a
// status call may take.
type Config struct {
	QdeviceToolPath string        // corosync-qdevice-tool binary
	QnetdToolPath   string        // corosync-qnetd-tool binary
	StatusTimeout   time.Duration // budget for a single status call (default: 10s)
}

// DefaultConfig returns the tool locations of the standard corosync
// packaging.
func DefaultConfig() Config {
	return Config{
		QdeviceToolPath: QdeviceToolPath,
		QnetdToolPath:   QnetdToolPath,
		StatusTimeout:   10 * time.Second,
	}
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.QdeviceToolPath == "" {
		return ErrNoQdeviceTool
	}
	if c.QnetdToolPath == "" {
		return ErrNoQnetdTool
	}
	if c.StatusTimeout <= 0 {
		return ErrInvalidStatusTimeout
	}
	return nil
}
