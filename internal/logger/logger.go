package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx/fxevent"
)

// Init configures the global zerolog logger. Debug level switches to the
// human-readable console writer.
func Init(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if lvl <= zerolog.DebugLevel {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// FxLogger forwards fx container events to zerolog.
type FxLogger struct {
	Logger zerolog.Logger
}

func NewFxLogger() fxevent.Logger {
	return &FxLogger{Logger: log.Logger}
}

func (l *FxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.Provided:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("constructor", e.ConstructorName).Msg("fx: provide failed")
			return
		}
		l.Logger.Debug().Str("constructor", e.ConstructorName).Strs("types", e.OutputTypeNames).Msg("fx: provided")
	case *fxevent.Invoked:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("function", e.FunctionName).Msg("fx: invoke failed")
			return
		}
		l.Logger.Debug().Str("function", e.FunctionName).Msg("fx: invoked")
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("fx: OnStart hook failed")
		}
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("fx: OnStop hook failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Msg("fx: start failed")
			return
		}
		l.Logger.Info().Msg("fx: application started")
	case *fxevent.Stopped:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Msg("fx: stop failed")
		}
	}
}
