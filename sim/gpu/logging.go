package gpu

import (
	"log"
	"os"
)

// Logger is the simulator's diagnostic channel. Everything routed here
// is operational detail, not an error the caller must act on: kernel
// dispatch-count changes, impulse slot churn, init-time buffer sizing.
// Fatal conditions travel through the error returns instead.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// stdLogger writes to stderr through one stdlib log.Logger with the
// simulator prefix baked in. Debug output is a construction-time choice;
// the simulator has no reason to flip verbosity mid-run.
type stdLogger struct {
	debug bool
	l     *log.Logger
}

// NewDefaultLogger returns a stderr Logger tagged with prefix. Debugf
// output is dropped unless debug is set.
func NewDefaultLogger(prefix string, debug bool) Logger {
	if prefix != "" {
		prefix = "[" + prefix + "] "
	}
	return &stdLogger{
		debug: debug,
		l:     log.New(os.Stderr, prefix, log.LstdFlags|log.Lmicroseconds),
	}
}

func (s *stdLogger) Debugf(format string, args ...any) {
	if !s.debug {
		return
	}
	s.l.Printf("DEBUG "+format, args...)
}

func (s *stdLogger) Infof(format string, args ...any)  { s.l.Printf("INFO "+format, args...) }
func (s *stdLogger) Warnf(format string, args ...any)  { s.l.Printf("WARN "+format, args...) }
func (s *stdLogger) Errorf(format string, args ...any) { s.l.Printf("ERROR "+format, args...) }

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything, the default
// when Config.Logger is nil.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}
