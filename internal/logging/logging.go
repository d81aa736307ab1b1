package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogNameServer = "server"
	LogNameCheck  = "check"
)

// New builds a named logger writing to stderr. format is "json" or "text".
func New(name, level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	core, err := newCore(format, zap.NewAtomicLevelAt(lvl))
	if err != nil {
		return nil, err
	}

	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)

	return logger.Named(name), nil
}

func newCore(format string, level zap.AtomicLevel) (zapcore.Core, error) {
	var encoder zapcore.Encoder

	switch format {
	case "json", "":
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	case "text":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		return nil, fmt.Errorf("log format %q: want json or text", format)
	}

	return zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level), nil
}
