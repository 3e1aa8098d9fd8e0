package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

type zeroLogger struct {
	logger zerolog.Logger
}

var (
	loggerInstance *zeroLogger
	once           sync.Once
)

// New creates a new singleton instance of the zerolog-backed logger.
// LOG_LEVEL selects the minimum level (debug, info, warn, error); default info.
func New() Logger {
	once.Do(func() {
		level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
		if err != nil || level == zerolog.NoLevel {
			level = zerolog.InfoLevel
		}
		zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			Level(level).
			With().
			Timestamp().
			Logger()
		loggerInstance = &zeroLogger{logger: zl}
	})
	return loggerInstance
}

func (l *zeroLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

func (l *zeroLogger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

func (l *zeroLogger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

func (l *zeroLogger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}
