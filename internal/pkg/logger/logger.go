package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the service logger. A nil cfg uses DefaultConfig.
// Every entry carries a service field.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger configuration: %w", err)
	}

	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	service := cfg.Service
	if service == "" {
		service = DefaultService
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), newSink(cfg), level)

	opts := []zap.Option{
		zap.AddCaller(),
		zap.Fields(zap.String("service", service)),
	}
	if cfg.EnableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return zap.New(core, opts...), nil
}

// newEncoder emits "ts" in RFC3339 and provider latencies in milliseconds
func newEncoder(format string) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func newSink(cfg *Config) zapcore.WriteSyncer {
	var sinks []zapcore.WriteSyncer
	if cfg.writesConsole() {
		sinks = append(sinks, zapcore.Lock(os.Stdout))
	}
	if cfg.writesFile() {
		sinks = append(sinks, zapcore.AddSync(rotatingFile(&cfg.File)))
	}
	return zapcore.NewMultiWriteSyncer(sinks...)
}

// rotatingFile opens the lumberjack writer, creating its directory first
func rotatingFile(f *RotateFile) io.Writer {
	if err := os.MkdirAll(filepath.Dir(f.Filename), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "forc3: cannot create log directory: %v\n", err)
	}

	return &lumberjack.Logger{
		Filename:   f.Filename,
		MaxSize:    f.MaxSize,
		MaxAge:     f.MaxAge,
		MaxBackups: f.MaxBackups,
		Compress:   f.Compress,
		LocalTime:  true,
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// ForContext returns l annotated with the request ID carried by ctx, if any
func ForContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	if requestID := GetRequestID(ctx); requestID != "" {
		return l.With(zap.String("request_id", requestID))
	}
	return l
}
