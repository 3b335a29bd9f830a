package logging

import (
	"time"
)

// TimedOperation measures how long an operation took and logs it on End.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// End logs the operation with its duration plus any outcome fields.
func (t *TimedOperation) End(fields ...Field) {
	elapsed := time.Since(t.start)
	all := make([]Field, 0, len(t.fields)+len(fields)+1)
	all = append(all, t.fields...)
	all = append(all, fields...)
	all = append(all, Latency(elapsed))
	t.logger.Info(t.msg, all...)
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error) {
	elapsed := time.Since(t.start)
	t.logger.Error(t.msg, append(t.fields, Latency(elapsed), Error(err))...)
}
