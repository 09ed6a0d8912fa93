package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx/fxevent"
)

// FxLogger sends fx container events to zerolog. Wiring details are debug
// noise for a CLI; only failures are logged above that.
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
			l.Logger.Error().Err(e.Err).Str("constructor", e.ConstructorName).Msg("fx provide failed")
			return
		}
		l.Logger.Debug().Str("constructor", e.ConstructorName).Strs("types", e.OutputTypeNames).Msg("fx provided")
	case *fxevent.Invoked:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("function", e.FunctionName).Msg("fx invoke failed")
			return
		}
		l.Logger.Debug().Str("function", e.FunctionName).Msg("fx invoked")
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("OnStart hook failed")
			return
		}
		l.Logger.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("OnStart hook executed")
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("OnStop hook failed")
			return
		}
		l.Logger.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("OnStop hook executed")
	case *fxevent.Started:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Msg("fx start failed")
			return
		}
		l.Logger.Debug().Msg("fx started")
	case *fxevent.Stopped:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Msg("fx stop failed")
			return
		}
		l.Logger.Debug().Msg("fx stopped")
	default:
		l.Logger.Trace().Msgf("fx event %T", event)
	}
}
