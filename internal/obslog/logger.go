// Package obslog wraps zerolog with renamed field names, a debug/info
// level switch, and a SpawnForComponent child-logger helper, covering
// the simulation's recoverable-event vocabulary.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	zerolog.Logger
}

type Options struct {
	Verbose bool
	Output  io.Writer
}

// New builds a structured logger. With Verbose unset, only Info level
// and above is emitted; numerical-escape and repair events are logged
// at Warn, the fatal invariant break at Error.
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	zerolog.TimestampFieldName = "ts"
	zerolog.LevelFieldName = "lvl"
	zerolog.MessageFieldName = "msg"

	l := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{l}
}

// SpawnForComponent returns a child logger tagged with the owning
// component (e.g. "gate", "sched", "ensemble").
func (l *Logger) SpawnForComponent(component string) *Logger {
	return &Logger{l.With().Str("component", component).Logger()}
}
