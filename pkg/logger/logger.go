package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/dragonboard/pkg/config"
)

// Logger wraps zerolog. Derived loggers (WithComponent, WithFields, ...)
// share the writer and level of their parent.
// ⭐ SSOT: 所有日志都通过这个包输出
type Logger struct {
	zlog zerolog.Logger
}

// New writes to stdout; LOG_FORMAT=console (or pretty) switches from JSON
// lines to a human-readable layout.
func New(cfg *config.Config) *Logger {
	var out io.Writer = os.Stdout
	switch strings.ToLower(cfg.LogFormat) {
	case "console", "pretty":
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	return NewWithWriter(cfg, out)
}

// NewWithWriter builds a JSON logger on w. The level is process-wide.
func NewWithWriter(cfg *config.Config, w io.Writer) *Logger {
	zerolog.SetGlobalLevel(parseLogLevel(cfg.LogLevel))
	zerolog.DurationFieldUnit = time.Millisecond

	return &Logger{
		zlog: zerolog.New(w).With().Timestamp().Str("env", cfg.Env).Logger(),
	}
}

// Nop discards everything; engines fall back to it when no logger is given
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug(msg string) { l.zlog.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zlog.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zlog.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.zlog.Error().Msg(msg) }

// WithComponent tags entries with the emitting package (heat, leader, ...)
func (l *Logger) WithComponent(name string) *Logger {
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Str("component", name) })
}

// WithRequestID tags entries with the X-Request-ID of an API call
func (l *Logger) WithRequestID(id string) *Logger {
	if id == "" {
		return l
	}
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Str("request_id", id) })
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Interface(key, value) })
}

func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Fields(fields) })
}

func (l *Logger) WithError(err error) *Logger {
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Err(err) })
}

func (l *Logger) with(add func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{zlog: add(l.zlog.With()).Logger()}
}
