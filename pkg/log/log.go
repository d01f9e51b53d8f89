// Package log provides the structured logging facade used across the insight
// engine. It is a thin wrapper over zerolog: trainers obtain a named logger
// via GetLoggerWithName and attach structured fields (row counts, tree
// counts, scores) to their progress messages. The backend can be swapped or
// silenced by the embedding application through SetOutput / SetLevel.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the minimal structured logging interface the engine depends on.
// Fields are alternating key/value pairs, as in log/slog.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	With(fields ...any) Logger
}

var (
	mu   sync.RWMutex
	root = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
)

// SetOutput redirects all engine logging to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Output(w)
}

// SetLevel adjusts the global engine log level.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Level(level)
}

// GetLogger returns the root engine logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return zerologLogger{zl: root}
}

// GetLoggerWithName returns a logger scoped to a component name,
// e.g. "ensemble.forest" or "linear.trainer".
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return zerologLogger{zl: root.With().Str("component", name).Logger()}
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l zerologLogger) Debug(msg string, fields ...any) { emit(l.zl.Debug(), msg, fields) }
func (l zerologLogger) Info(msg string, fields ...any)  { emit(l.zl.Info(), msg, fields) }
func (l zerologLogger) Warn(msg string, fields ...any)  { emit(l.zl.Warn(), msg, fields) }
func (l zerologLogger) Error(msg string, fields ...any) { emit(l.zl.Error(), msg, fields) }

func (l zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return zerologLogger{zl: ctx.Logger()}
}

func emit(event *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			event = event.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			event = event.Object(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	event.Msg(msg)
}
