package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.Logger

type rayIDKey struct{}

// Init initializes the global logger.
// Development gets coloured console output, production gets JSON.
// An unknown level keeps the environment default.
func Init(environment string, level string) error {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "time"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if l, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(l)
	}
	config.InitialFields = map[string]interface{}{"env": environment}

	built, err := config.Build()
	if err != nil {
		return err
	}

	globalLogger = built.Named("storefront")
	return nil
}

// Get returns the global logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// WithRayID stores the inbound request id on ctx. Backend calls and
// Ctx loggers made from it carry the id.
func WithRayID(ctx context.Context, rayID string) context.Context {
	return context.WithValue(ctx, rayIDKey{}, rayID)
}

// RayID returns the request id stored on ctx, if any.
func RayID(ctx context.Context) string {
	id, _ := ctx.Value(rayIDKey{}).(string)
	return id
}

// Ctx returns the global logger tagged with the ray id found on ctx.
func Ctx(ctx context.Context) *zap.Logger {
	if id := RayID(ctx); id != "" {
		return ForRequest(id)
	}
	return Get()
}

// ForRequest returns the global logger tagged with rayID.
func ForRequest(rayID string) *zap.Logger {
	return Get().With(zap.String("ray_id", rayID))
}

// Sync flushes any buffered log entries.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
