// Package diag provides the diagnostic sink that swallowed failures are
// reported to. The purchase commit and status update paths log here and
// nowhere else; tests inject a recording sink to assert on those paths.
package diag

import (
	"fmt"
	"log"
)

// Sink receives diagnostic reports for failures that are not surfaced to the
// caller.
type Sink interface {
	Errorf(format string, args ...interface{})
}

// LogSink writes diagnostics to the standard logger.
type LogSink struct {
	Prefix string
}

func NewLogSink(prefix string) *LogSink {
	return &LogSink{Prefix: prefix}
}

func (s *LogSink) Errorf(format string, args ...interface{}) {
	log.Printf("❌ ["+s.Prefix+"] "+format, args...)
}

// Recorder is a Sink that captures reports for test assertions.
type Recorder struct {
	Reports []string
}

func (r *Recorder) Errorf(format string, args ...interface{}) {
	r.Reports = append(r.Reports, fmt.Sprintf(format, args...))
}
