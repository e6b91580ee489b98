package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/chimera-labs/chimera/pkg/types"
)

var (
	// Logger is the global logger instance
	Logger zerolog.Logger
)

// Config holds logging configuration
type Config struct {
	Level      types.LogLevel
	JSONOutput bool
	Output     io.Writer
}

// Init initializes the global logger
func Init(cfg Config) {
	zerolog.SetGlobalLevel(zerologLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	// Use JSON or console output. JSON is the CLI default (--log-json
	// defaults to true) per spec.md §6.
	if !cfg.JSONOutput {
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
		return
	}

	Logger = zerolog.New(output).With().Timestamp().Str("service", "chimera").Logger()
}

func zerologLevel(level types.LogLevel) zerolog.Level {
	switch level {
	case types.LogLevelDebug:
		return zerolog.DebugLevel
	case types.LogLevelInfo:
		return zerolog.InfoLevel
	case types.LogLevelWarning:
		return zerolog.WarnLevel
	case types.LogLevelError:
		return zerolog.ErrorLevel
	case types.LogLevelCritical:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithComponent creates a child logger with a component field.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithAgent creates a child logger with an agent field — the logger field
// matching spec.md §4.8's "logger" structured-log field for a given agent.
func WithAgent(agent string) zerolog.Logger {
	return Logger.With().Str("logger", agent).Logger()
}

// WithCorrelationID creates a child logger that stamps the correlation id
// as a structured field on every record it emits, satisfying the testable
// property that log records emitted while a correlation-id is ambient
// contain that id (spec.md §8).
func WithCorrelationID(logger zerolog.Logger, correlationID string) zerolog.Logger {
	if correlationID == "" {
		return logger
	}
	return logger.With().Str("correlation_id", correlationID).Logger()
}

// Helper functions for common logging patterns against the package logger.
func Info(msg string) {
	Logger.Info().Msg(msg)
}

func Debug(msg string) {
	Logger.Debug().Msg(msg)
}

func Warn(msg string) {
	Logger.Warn().Msg(msg)
}

func Error(msg string) {
	Logger.Error().Msg(msg)
}

func Errorf(msg string, err error) {
	Logger.Error().Err(err).Msg(msg)
}
