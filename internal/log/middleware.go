package log

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// Middleware puts a request-scoped logger (tagged with the request id set by
// echo's RequestID middleware) into the request context and writes one access
// log line per request.
func Middleware(logger *Logger) echo.MiddlewareFunc {
	sl := NewStructuredLogger(logger.WithComponent(ComponentHTTP))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)

			reqLogger := logger.With(FieldRequestID, rid)
			c.SetRequest(req.WithContext(NewContext(req.Context(), reqLogger)))

			err := next(c)
			if err != nil {
				// let echo's error handler write the response so the
				// status below is the one the client sees
				c.Error(err)
			}
			sl.LogHTTPEnd(c.Request().Context(), c, time.Since(start).Milliseconds(), rid)
			return nil
		}
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogHTTPEnd logs the completion of an HTTP request
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, c echo.Context, durationMs int64, requestID string) {
	req := c.Request()
	statusCode := c.Response().Status
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(req.Method, req.URL.Path, req.URL.RawQuery, req.UserAgent()).
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(c.RealIP()).
		WithRequestID(requestID)

	sl.logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogDocumentSaved logs a successful write through the mutation gateway.
func (sl *StructuredLogger) LogDocumentSaved(ctx context.Context, key string, revision uint64, size int) {
	fields := NewFields().
		WithDocument(key, revision).
		WithOperation(OpSave).
		ToSlice()
	fields = append(fields, FieldBytes, size)

	sl.logger.InfoContext(ctx, "Document saved", fields...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
