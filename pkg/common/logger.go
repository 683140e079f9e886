package common

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ServiceName = "container-monitor"
	LogFileName = ServiceName + ".log"
)

var (
	logger *zap.Logger
	once   sync.Once
)

func getLogger() *zap.Logger {
	once.Do(func() {
		if logger == nil {
			logger = buildLogger()
		}
	})
	return logger
}

func GetLogger() *zap.Logger {
	return getLogger().Named("default")
}

// GetLoggerWith returns a child logger named after the component, e.g.
// LoggerNameIOTCore.
func GetLoggerWith(name string, fields ...zap.Field) *zap.Logger {
	return getLogger().Named(name).With(fields...)
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// logDir is IOT_LOG_DIR, or logs/ under the working directory.
func logDir() string {
	if dir := os.Getenv(EnvKeyIOTLogDir); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Error getting current directory: %v", err)
	}
	return filepath.Join(wd, "logs")
}

func rotatingFileCore(dir string) zapcore.Core {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		log.Fatalf("Error find/create logs directory: %v", err)
	}
	sink := &lumberjack.Logger{
		Filename:   filepath.Join(dir, LogFileName),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	return zapcore.NewCore(jsonEncoder(), zapcore.AddSync(sink), zap.InfoLevel)
}

func consoleCore() zapcore.Core {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.DebugLevel)
}

// buildLogger writes JSON to a rotating file. Outside production the same
// entries are echoed to stdout.
func buildLogger() *zap.Logger {
	core := rotatingFileCore(logDir())
	if !IsProduction() {
		core = zapcore.NewTee(core, consoleCore())
	}
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", ServiceName)),
	)
}

// SetTestCaptureLogger sends every entry at or above level to buf as JSON.
func SetTestCaptureLogger(buf *bytes.Buffer, level zapcore.Level) {
	_ = getLogger()
	logger = zap.New(zapcore.NewCore(jsonEncoder(), zapcore.AddSync(buf), level))
}

func SetTestLoggerNop() {
	_ = getLogger()
	logger = zap.NewNop()
}
