package log

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger that carries the scope of the
// component that owns it.
type Logger struct {
	zl *zerolog.Logger
}

// AttrFn adds a field to the logger context.
type AttrFn func(l zerolog.Context) zerolog.Context

// Scope sets the component scope.
func Scope(s string) AttrFn {
	return func(l zerolog.Context) zerolog.Context {
		return l.Str("s", s)
	}
}

// Op sets the list operation being performed.
func Op(op string) AttrFn {
	return func(l zerolog.Context) zerolog.Context {
		return l.Str("op", op)
	}
}

// Scenario sets the exercise scenario as "group.name".
func Scenario(group, name string) AttrFn {
	return func(l zerolog.Context) zerolog.Context {
		return l.Str("scenario", group+"."+name)
	}
}

func Str(key, val string) AttrFn {
	return func(l zerolog.Context) zerolog.Context {
		return l.Str(key, val)
	}
}

func Int(key string, val int) AttrFn {
	return func(l zerolog.Context) zerolog.Context {
		return l.Int(key, val)
	}
}

func Int64(key string, val int64) AttrFn {
	return func(l zerolog.Context) zerolog.Context {
		return l.Int64(key, val)
	}
}

// Elapsed adds the elapsed time in milliseconds.
func Elapsed(dur time.Duration) AttrFn {
	return func(l zerolog.Context) zerolog.Context {
		return l.Int64("elapsed_ms", dur.Milliseconds())
	}
}

// InitGlobals builds the process logger and installs it as the fallback for
// contexts that carry no logger.
func InitGlobals(level zerolog.Level, json, noColor bool) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.DurationFieldUnit = time.Millisecond

	var l zerolog.Logger
	if json {
		l = zerolog.New(os.Stderr)
	} else {
		l = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.NoColor = noColor
			w.TimeFormat = time.DateTime
		}))
	}

	l = l.Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &l

	return &l
}

// New returns a logger for the given scope.
func New(scope string) *Logger {
	l := zerolog.Ctx(context.Background()).With().Str("s", scope).Logger()

	return &Logger{&l}
}

// Ctx returns the logger stored in the context, or the global one.
func Ctx(ctx context.Context) *Logger {
	return &Logger{zerolog.Ctx(ctx)}
}

// With returns a child logger with the provided attributes.
func (l *Logger) With(attrs ...AttrFn) *Logger {
	c := l.zl.With()
	for _, fn := range attrs {
		c = fn(c)
	}

	zl := c.Logger()

	return &Logger{&zl}
}

// WithContext stores the logger in a copy of ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.zl.WithContext(ctx)
}

// Unwrap returns the underlying zerolog.Logger.
func (l *Logger) Unwrap() *zerolog.Logger {
	return l.zl
}

func (l *Logger) Trace(msg string) {
	l.zl.Trace().Msg(msg)
}

func (l *Logger) Tracef(msg string, args ...any) {
	l.zl.Trace().Msgf(msg, args...)
}

func (l *Logger) Debug(msg string) {
	l.zl.Debug().Msg(msg)
}

func (l *Logger) Debugf(msg string, args ...any) {
	l.zl.Debug().Msgf(msg, args...)
}

func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

func (l *Logger) Infof(msg string, args ...any) {
	l.zl.Info().Msgf(msg, args...)
}

// InfoWith logs msg at info level with one-off attributes.
func (l *Logger) InfoWith(msg string, attrs ...AttrFn) {
	l.With(attrs...).Info(msg)
}

func (l *Logger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

func (l *Logger) Warnf(msg string, args ...any) {
	l.zl.Warn().Msgf(msg, args...)
}

func (l *Logger) Error(err error, msg string) {
	l.zl.Error().Err(err).Msg(msg)
}

func (l *Logger) Errorf(err error, msg string, args ...any) {
	l.zl.Error().Err(err).Msgf(msg, args...)
}
