// Package gblog provides the engine's structured logger, a thin
// wrapper over logrus configured for headless/batch use (no color, no
// timestamps, so emulator trace logs diff cleanly in CI).
package gblog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the interface components depend on, so tests can swap in
// a null logger without pulling logrus into their import graph.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns a logrus-backed Logger writing to w at the given level.
func New(w io.Writer, level logrus.Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
	}
	return l
}

// Default returns an Info-level logger writing to stderr.
func Default() Logger {
	return New(os.Stderr, logrus.InfoLevel)
}

// nullLogger discards everything; used by components under test that
// don't want log noise.
type nullLogger struct{}

func (nullLogger) Debugf(string, ...interface{}) {}
func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Warnf(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}

// Null returns a Logger that discards all output.
func Null() Logger { return nullLogger{} }
