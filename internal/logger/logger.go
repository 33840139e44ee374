// Package logger wraps a process wide zap logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const TimeFormat = "2006-01-02 15:04:05.999"

// AtomicLevel controls the level of Global at runtime
var AtomicLevel = zap.NewAtomicLevel()

var Global = MustNew()

// SetLevel changes the level, e.g. "debug" or "warn". Unknown levels are ignored.
func SetLevel(level string) {
	if level == "" {
		return
	}
	if err := AtomicLevel.UnmarshalText([]byte(level)); err != nil {
		Global.Warn("invalid log level", zap.String("level", level))
		return
	}
	Global.Info("logger level updated", zap.String("level", level))
}

func MustNew() *zap.Logger {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.Level = AtomicLevel
	_ = AtomicLevel.UnmarshalText([]byte(os.Getenv("LOG_LEVEL")))
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(TimeFormat)
	config.DisableStacktrace = true
	config.Sampling = nil
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// Named returns a child logger for one component
func Named(name string) *zap.Logger {
	return Global.Named(name)
}

func Fatalf(format string, v ...interface{}) {
	Global.WithOptions(zap.AddCallerSkip(1)).Sugar().Fatalf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	Global.WithOptions(zap.AddCallerSkip(1)).Sugar().Errorf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	Global.WithOptions(zap.AddCallerSkip(1)).Sugar().Warnf(format, v...)
}

func Infof(format string, v ...interface{}) {
	Global.WithOptions(zap.AddCallerSkip(1)).Sugar().Infof(format, v...)
}

func Debugf(format string, v ...interface{}) {
	Global.WithOptions(zap.AddCallerSkip(1)).Sugar().Debugf(format, v...)
}
