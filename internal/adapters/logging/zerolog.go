package logging

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/plm/internal/ports"
)

// Logger adapts a zerolog.Logger to ports.Logger.
type Logger struct {
	mu    *sync.Mutex
	zl    zerolog.Logger
	level ports.Level
}

// Option configures the logger.
type Option func(*options)

type options struct {
	out        io.Writer
	level      ports.Level
	jsonFormat bool
	timestamp  bool
	noColor    bool
}

// WithOutput sets the output writer (default: os.Stderr).
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithLevel sets the minimum log level (default: Info).
func WithLevel(level ports.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithJSONFormat switches from the console writer to one JSON object per line.
func WithJSONFormat(enabled bool) Option {
	return func(o *options) {
		o.jsonFormat = enabled
	}
}

// WithTimestamp includes a timestamp in log entries.
func WithTimestamp(enabled bool) Option {
	return func(o *options) {
		o.timestamp = enabled
	}
}

// WithNoColor disables ANSI colors in console output.
func WithNoColor(disabled bool) Option {
	return func(o *options) {
		o.noColor = disabled
	}
}

// New creates a zerolog-backed logger.
func New(opts ...Option) *Logger {
	o := options{
		out:       os.Stderr,
		level:     ports.LevelInfo,
		timestamp: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	w := o.out
	if !o.jsonFormat {
		w = zerolog.ConsoleWriter{Out: o.out, TimeFormat: time.Kitchen, NoColor: o.noColor}
	}

	ctx := zerolog.New(w).With()
	if o.timestamp {
		ctx = ctx.Timestamp()
	}

	return &Logger{
		mu:    &sync.Mutex{},
		zl:    ctx.Logger().Level(toZerolog(o.level)),
		level: o.level,
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelDebug, msg, fields)
}

// Info logs an informational message.
func (l *Logger) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelWarn, msg, fields)
}

// Error logs an error message.
func (l *Logger) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.log(ctx, ports.LevelError, msg, fields)
}

// With returns a new logger with additional fields.
func (l *Logger) With(fields ...ports.Field) ports.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	zctx := l.zl.With()
	for _, f := range fields {
		zctx = zctx.Interface(f.Key, f.Value)
	}
	return &Logger{mu: l.mu, zl: zctx.Logger(), level: l.level}
}

// Level returns the minimum log level.
func (l *Logger) Level() ports.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level ports.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zl = l.zl.Level(toZerolog(level))
}

func (l *Logger) log(_ context.Context, level ports.Level, msg string, fields []ports.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var event *zerolog.Event
	switch level {
	case ports.LevelDebug:
		event = l.zl.Debug()
	case ports.LevelWarn:
		event = l.zl.Warn()
	case ports.LevelError:
		event = l.zl.Error()
	default:
		event = l.zl.Info()
	}

	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			event = event.AnErr(f.Key, v)
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	event.Msg(msg)
}

func toZerolog(level ports.Level) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Ensure Logger implements ports.Logger.
var _ ports.Logger = (*Logger)(nil)
