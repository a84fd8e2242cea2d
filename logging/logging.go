// Package logging builds the process-wide structured logger and provides
// field helpers for the identifiers that recur across the service: job ids,
// candidate ids, LLM providers, and pipeline states.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured field keys shared across packages so log queries can join on
// them.
const (
	FieldJobID       = "job_id"
	FieldCandidateID = "candidate_id"
	FieldProvider    = "provider"
	FieldModel       = "model"
	FieldState       = "state"
	FieldQuery       = "query"
)

// New constructs the root logger. With json true entries are emitted as JSON
// for log collectors; otherwise a human-readable console encoding is used.
// debug lowers the level from Info to Debug.
func New(json, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoding := "console"
	if json {
		encoding = "json"
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// WithJob attaches the job identifier to the logger. A nil logger is replaced
// with a no-op logger so call sites never have to guard against panics.
func WithJob(logger *zap.Logger, jobID string) *zap.Logger {
	return with(logger, zap.String(FieldJobID, jobID))
}

// WithProvider attaches provider and model identifiers to the logger,
// omitting either when empty.
func WithProvider(logger *zap.Logger, provider, model string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if provider = strings.TrimSpace(provider); provider != "" {
		fields = append(fields, zap.String(FieldProvider, provider))
	}
	if model = strings.TrimSpace(model); model != "" {
		fields = append(fields, zap.String(FieldModel, model))
	}
	return with(logger, fields...)
}

func with(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// Truncate shortens s to at most limit runes for log readability, appending
// an ellipsis when anything was cut. A non-positive limit yields an empty
// string.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
