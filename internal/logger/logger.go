package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger builds the process logger. An empty logLevel falls back to
// LOG_LEVEL, then to debug in development and info elsewhere. Output is JSON
// outside development or when LOG_FORMAT=json.
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	return initLogger(os.Stdout, logLevel, isDevelopment)
}

func initLogger(out io.Writer, logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.SetOutput(out)
	Logger = log
	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithRound scopes a logger to one league round.
func WithRound(round int) *logrus.Entry {
	return GetLogger().WithField("round", round)
}

// WithSource creates a logger tagged with the data source in use
func WithSource(source string) *logrus.Entry {
	return GetLogger().WithField("source", source)
}
