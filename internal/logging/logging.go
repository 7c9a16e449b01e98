// Package logging configures the process-wide zerolog logger, the same
// library the teacher's node executors log through
// ("github.com/rs/zerolog/log").
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger writing structured JSON to stdout, or a
// human-readable console writer when format is "console" (useful for
// local runs of cmd/trainer).
func New(level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var writer = os.Stdout
	logger := zerolog.New(writer).With().Timestamp().Logger()

	if strings.EqualFold(format, "console") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}

	logger = logger.Level(parseLevel(level))
	return logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
