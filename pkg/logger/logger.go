package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = zap.NewNop()

// SetupLogger builds the process-wide zap logger for the given environment
// and returns a sugared handle for startup code. Production envs log JSON at
// info level, everything else logs console output at debug level.
func SetupLogger(env string) *zap.SugaredLogger {
	var (
		l   *zap.Logger
		err error
	)

	switch env {
	case "prod", "production":
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		l, err = cfg.Build()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		l, err = cfg.Build()
	}
	if err != nil {
		log.Fatalf("cannot build logger: %s", err)
	}

	global = l
	zap.ReplaceGlobals(l)

	return l.Sugar()
}

// Logger returns the shared zap logger, e.g. for ginzap middleware.
func Logger() *zap.Logger {
	return global
}

func Debug(msg string, fields ...zap.Field) {
	global.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	global.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	global.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	global.Error(msg, fields...)
}
