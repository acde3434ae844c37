package adapters

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologLoggerAdapter implements LoggerAdapter on top of rs/zerolog,
// emitting structured JSON diagnostics suitable for log aggregation.
type ZerologLoggerAdapter struct {
	logger zerolog.Logger
}

// Ensure ZerologLoggerAdapter implements LoggerAdapter interface
var _ LoggerAdapter = (*ZerologLoggerAdapter)(nil)

// NewZerologLoggerAdapter creates a zerolog-backed logger writing to
// stdout with the given minimum level.
func NewZerologLoggerAdapter(level LogLevel) *ZerologLoggerAdapter {
	return NewZerologLoggerAdapterWithWriter(level, os.Stdout)
}

// NewZerologLoggerAdapterWithWriter creates a zerolog-backed logger
// writing to the given writer.
func NewZerologLoggerAdapterWithWriter(level LogLevel, w io.Writer) *ZerologLoggerAdapter {
	logger := zerolog.New(w).
		Level(zerologLevel(level)).
		With().
		Timestamp().
		Str("component", "funplus-sdk").
		Logger()
	return &ZerologLoggerAdapter{logger: logger}
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

func (z *ZerologLoggerAdapter) Debug(message string, args ...interface{}) {
	z.logger.Debug().Msg(fmt.Sprintf(message, args...))
}

func (z *ZerologLoggerAdapter) Info(message string, args ...interface{}) {
	z.logger.Info().Msg(fmt.Sprintf(message, args...))
}

func (z *ZerologLoggerAdapter) Warn(message string, args ...interface{}) {
	z.logger.Warn().Msg(fmt.Sprintf(message, args...))
}

func (z *ZerologLoggerAdapter) Error(message string, args ...interface{}) {
	z.logger.Error().Msg(fmt.Sprintf(message, args...))
}
