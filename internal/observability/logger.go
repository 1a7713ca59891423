package observability

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process logger. GetLogger falls back to a default one when
// InitLogger was never called, as in tests.
var Log *zap.Logger

// InitLogger builds the production JSON logger. An unparsable level keeps
// the default of info.
func InitLogger(serviceName, level string) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, lvlErr := zapcore.ParseLevel(level)
	if lvlErr == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	Log = logger.With(zap.String("service", serviceName))

	if lvlErr != nil && level != "" {
		Log.Warn("unknown log level, using info", zap.String("level", level))
	}
}

// GetLogger returns Log enriched with the request id set by chi's RequestID
// middleware and the active span's trace ids.
func GetLogger(ctx context.Context) *zap.Logger {
	if Log == nil {
		InitLogger("rize", "info")
	}

	logger := Log
	if reqID := chimw.GetReqID(ctx); reqID != "" {
		logger = logger.With(zap.String("request_id", reqID))
	}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		logger = logger.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return logger
}
