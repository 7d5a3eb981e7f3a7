// Package logging holds the process-wide logrus logger and its setup helpers.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// LogFormatText renders human readable lines.
	LogFormatText = "text"
	// LogFormatJSON renders one JSON object per line.
	LogFormatJSON = "json"

	// DefaultLogLevel is the level used when none is configured.
	DefaultLogLevel = logrus.InfoLevel
)

// DefaultLogger is the base logger of the process; subsystems derive from it
// with WithField(logfields.LogSubsys, ...).
var DefaultLogger = InitializeDefaultLogger()

// InitializeDefaultLogger returns a logger writing text to stderr.
func InitializeDefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(textFormatter())
	logger.SetLevel(DefaultLogLevel)
	return logger
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		DisableTimestamp: true,
	}
}

// SetLogLevel parses level and applies it to DefaultLogger.
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	DefaultLogger.SetLevel(lvl)
	return nil
}

// SetLogFormat switches DefaultLogger between text and JSON output.
func SetLogFormat(format string) error {
	switch strings.ToLower(format) {
	case "", LogFormatText:
		DefaultLogger.SetFormatter(textFormatter())
	case LogFormatJSON:
		DefaultLogger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q: want %q or %q", format, LogFormatText, LogFormatJSON)
	}
	return nil
}

// SetOutput redirects DefaultLogger.
func SetOutput(w io.Writer) {
	DefaultLogger.SetOutput(w)
}
