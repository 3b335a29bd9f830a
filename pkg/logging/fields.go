package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for the names used across validation logs

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Cluster(name string) Field {
	return String("cluster", name)
}

func Transport(transport string) Field {
	return String("transport", transport)
}

func NodeCount(n int) Field {
	return Int("node_count", n)
}

func LinkCount(n int) Field {
	return Int("link_count", n)
}

func ReportCount(n int) Field {
	return Int("report_count", n)
}

func ErrorCount(n int) Field {
	return Int("error_count", n)
}

func WarningCount(n int) Field {
	return Int("warning_count", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Path(p string) Field {
	return String("path", p)
}
