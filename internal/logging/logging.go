// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Out        io.Writer
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "vanguard-notifier", "logs", "notifier.log"),
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				if ll, ok := i.(string); ok {
					switch ll {
					case "debug":
						return "\033[36mDBG\033[0m"
					case "info":
						return "\033[32mINF\033[0m"
					case "warn":
						return "\033[33mWRN\033[0m"
					case "error":
						return "\033[31mERR\033[0m"
					default:
						return ll
					}
				}
				return "???"
			},
		}
		writers = append(writers, consoleWriter)
	}

	// File writer with rotation
	if cfg.File && cfg.FilePath != "" {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(writer).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithFund adds a fund name to the logger context.
func WithFund(logger zerolog.Logger, fund string) zerolog.Logger {
	return logger.With().Str("fund", fund).Logger()
}

// WithOperation adds an operation name to the logger context.
func WithOperation(logger zerolog.Logger, operation string) zerolog.Logger {
	return logger.With().Str("operation", operation).Logger()
}

// LogTable logs a candidate table seen on the page.
func LogTable(logger zerolog.Logger, index, rows int, headers []string) {
	logger.Debug().
		Str("event", "table").
		Int("index", index).
		Int("rows", rows).
		Strs("headers", headers).
		Msg("Candidate table")
}

// LogExtraction logs a successful extraction.
func LogExtraction(logger zerolog.Logger, schema string, observations int, message string) {
	logger.Info().
		Str("event", "extraction").
		Str("schema", schema).
		Int("observations", observations).
		Str("message", message).
		Msg("Price data extracted")
}

// LogNotification logs a notification delivery attempt.
func LogNotification(logger zerolog.Logger, channel, title string, duration time.Duration, err error) {
	event := logger.Info()
	if err != nil {
		event = logger.Warn().Str(zerolog.ErrorFieldName, MaskSecrets(err.Error()))
	}
	event = event.
		Str("event", "notification").
		Str("channel", channel).
		Str("title", title).
		Dur("duration", duration)

	if err != nil {
		event.Msg("Notification failed")
	} else {
		event.Msg("Notification sent")
	}
}

// LogTransition logs a state change of the run driver.
func LogTransition(logger zerolog.Logger, from, to string) {
	logger.Debug().
		Str("event", "transition").
		Str("from", from).
		Str("to", to).
		Msg("State change")
}
