package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. TUTORBRAIN_LOG_LEVEL selects the level
// (debug, info, warn, error; default info) and TUTORBRAIN_LOG_JSON=1
// switches the console encoder to JSON.
func New() *zap.Logger {
	level := zapcore.InfoLevel
	if v := os.Getenv("TUTORBRAIN_LOG_LEVEL"); v != "" {
		if parsed, err := zapcore.ParseLevel(v); err == nil {
			level = parsed
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if os.Getenv("TUTORBRAIN_LOG_JSON") == "1" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}
