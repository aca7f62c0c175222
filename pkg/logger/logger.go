package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init inicializa el logger global con el nivel indicado ("debug", "info", "warn"...).
// Un nivel vacío o inválido deja "info".
func Init(level string) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"            // Logs estructurados en JSON
	cfg.EncoderConfig.TimeKey = "ts" // timestamp
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	built, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	log = built.With(zap.String("service", "alpesui"))
}

// Logger retorna el logger estructurado
func Logger() *zap.Logger {
	return log
}

// Named retorna un logger hijo para un componente concreto (stream, graphql, ui...).
func Named(component string) *zap.Logger {
	return log.Named(component)
}
