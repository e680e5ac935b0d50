package dato

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a *zap.Logger to the Logger interface.
type ZapLogger struct {
	log *zap.Logger
}

// NewZapLogger wraps log. A nil log yields a no-op zap logger.
func NewZapLogger(log *zap.Logger) *ZapLogger {
	if log == nil {
		log = zap.NewNop()
	}

	return &ZapLogger{log: log}
}

// NewDevelopmentLogger builds a colourised console logger, at debug level when verbose.
func NewDevelopmentLogger(verbose bool) (*zap.Logger, error) {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true

	if verbose {
		logConfig.Level.SetLevel(zap.DebugLevel)
	} else {
		logConfig.Level.SetLevel(zap.WarnLevel)
	}

	return logConfig.Build()
}

// Zap returns the underlying logger.
func (l *ZapLogger) Zap() *zap.Logger {
	return l.log
}

// Named returns a logger with a sub-name appended.
func (l *ZapLogger) Named(name string) *ZapLogger {
	return &ZapLogger{log: l.log.Named(name)}
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, fields map[string]interface{}) {
	l.log.Error(msg, toZapFields(fields)...)
}

// toZapFields converts a field map into zap fields, sorted by key for stable output.
func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))

	for _, key := range keys {
		if err, ok := fields[key].(error); ok {
			out = append(out, zap.NamedError(key, err))

			continue
		}

		out = append(out, zap.Any(key, fields[key]))
	}

	return out
}
