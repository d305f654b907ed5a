// =============================================================================
// Spot/PV Normalizer - Logging
// =============================================================================
//
// A thin wrapper around logrus. Every pipeline logs through an Entry tagged
// with its component name and the run ID, so the interleaved output of the
// parallel price and PV pipelines can be told apart.
//
// OUTPUT:
//   - "stdout" / "stderr"
//   - a file path, rotated by lumberjack when max_age is set
//
// LOG_LEVEL in the environment (or .env) overrides the configured level.
//
// =============================================================================

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias for logrus.Fields.
type Fields = logrus.Fields

// Log wraps logrus.Logger.
type Log struct {
	*logrus.Logger
}

// Entry wraps logrus.Entry.
type Entry struct {
	*logrus.Entry
}

// New returns a logger at info level writing text to stderr.
func New() *Log {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(textFormatter())
	return &Log{Logger: l}
}

// Configure sets up the logger with the provided configuration.
//
// PARAMETERS:
//   - level: "debug", "info", "warn" or "error".
//   - format: "text" or "json".
//   - output: "stdout", "stderr" or a file path.
//   - maxAge: Days to keep rotated files. 0 appends to a single file.
func (l *Log) Configure(level, format, output string, maxAge int) error {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level '%s'", level)
	}
	l.SetLevel(lvl)

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text", "":
		l.SetFormatter(textFormatter())
	default:
		return fmt.Errorf("invalid log format '%s'", format)
	}

	w, err := openOutput(output, maxAge)
	if err != nil {
		return err
	}
	l.SetOutput(w)
	return nil
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}
}

func openOutput(output string, maxAge int) (io.Writer, error) {
	switch output {
	case "stderr", "":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	if maxAge > 0 {
		return &lumberjack.Logger{
			Filename: output,
			MaxAge:   maxAge,
			MaxSize:  100,
			Compress: true,
		}, nil
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", output, err)
	}
	return file, nil
}

// WithComponent returns an entry tagged with component.
func (l *Log) WithComponent(component string) *Entry {
	return &Entry{Entry: l.Logger.WithField("component", component)}
}

// WithFields returns an entry carrying fields.
func (l *Log) WithFields(fields Fields) *Entry {
	return &Entry{Entry: l.Logger.WithFields(fields)}
}

// WithComponent returns a copy of e tagged with component.
func (e *Entry) WithComponent(component string) *Entry {
	return &Entry{Entry: e.Entry.WithField("component", component)}
}

// WithFields returns a copy of e carrying fields.
func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{Entry: e.Entry.WithFields(fields)}
}

// LogDuration logs how long an operation took.
func (e *Entry) LogDuration(operation string, duration time.Duration) {
	e.WithFields(Fields{
		"operation":   operation,
		"duration_ms": float64(duration.Nanoseconds()) / 1e6,
	}).Info("operation finished")
}
