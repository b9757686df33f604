package indexnow

import (
	"os"

	"github.com/sirupsen/logrus"
)

const logPrefix = "[IndexNow] "

// Logger is the logging capability used by the client and the
// verification endpoint.
type Logger interface {
	Info(msg string)
	Error(msg string)
}

// NewLogrusLogger adapts a logrus logger or entry to Logger.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLogger{log: l}
}

// DefaultLogger returns a logrus logger writing to standard output.
func DefaultLogger() Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	return NewLogrusLogger(l)
}

type logrusLogger struct {
	log logrus.FieldLogger
}

func (l *logrusLogger) Info(msg string)  { l.log.Info(msg) }
func (l *logrusLogger) Error(msg string) { l.log.Error(msg) }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(string)  {}
func (NopLogger) Error(string) {}
