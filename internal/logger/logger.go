package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB = 2
	logFileBackups   = 5
)

// Config controls where and how log events are written.
type Config struct {
	// Debug lowers the level to debug and switches to the console writer.
	Debug bool
	// File, when set, tees all events into a rotating log file capped at
	// logFileBackups files of logFileMaxSizeMB each.
	File string
	// Output overrides the primary writer, used in tests. Defaults to stderr.
	Output io.Writer
}

// Setup configures and returns the process logger.
func Setup(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Debug {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{out}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileBackups,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Caller().
		Logger()
}
