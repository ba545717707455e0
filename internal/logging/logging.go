// Package logging holds the logrus logger shared by hilite packages.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"

	// LogSubsys is the field denoting the subsystem when logging.
	LogSubsys = "subsys"

	// DefaultLogLevel is the level used until SetupLogging is called.
	// Library packages log at debug level only, so they are silent by default.
	DefaultLogLevel = logrus.WarnLevel
)

var DefaultLogger = initializeDefaultLogger()

func initializeDefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(GetFormatter(LogFormatText))
	logger.SetLevel(DefaultLogLevel)
	return logger
}

// ForSubsys returns an entry tagged with subsystem name.
func ForSubsys(name string) *logrus.Entry {
	return DefaultLogger.WithField(LogSubsys, name)
}

// GetFormatter returns a configured logrus.Formatter, unknown formats fall back to text.
func GetFormatter(format LogFormat) logrus.Formatter {
	switch LogFormat(strings.ToLower(string(format))) {
	case LogFormatJSON:
		return &logrus.JSONFormatter{DisableTimestamp: true}
	default:
		return &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}
	}
}

// SetupLogging applies level and format to DefaultLogger.
// An unparsable level is reported and the current level is kept.
func SetupLogging(level string, format LogFormat) {
	DefaultLogger.SetFormatter(GetFormatter(format))
	if level == "" {
		return
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		DefaultLogger.WithError(err).Warning("Ignoring user-configured log level")
		return
	}
	DefaultLogger.SetLevel(lvl)
}
