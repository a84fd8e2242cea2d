package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		json  bool
		debug bool
	}{
		{"console info", false, false},
		{"json info", true, false},
		{"console debug", false, true},
		{"json debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.json, tt.debug)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if logger == nil {
				t.Fatal("New() returned nil logger")
			}

			wantDebug := tt.debug
			if got := logger.Core().Enabled(zapcore.DebugLevel); got != wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, wantDebug)
			}
		})
	}
}

func TestWithJob(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithJob(logger, "job-42").Info("resolved")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()[FieldJobID]; got != "job-42" {
		t.Errorf("job_id = %q, want job-42", got)
	}
}

func TestWithJobNilLogger(t *testing.T) {
	logger := WithJob(nil, "job-42")
	if logger == nil {
		t.Fatal("expected fallback logger for nil input")
	}
	logger.Info("must not panic")
}

func TestWithProvider(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithProvider(logger, " openai ", "gpt-4o-mini").Info("call")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldProvider] != "openai" {
		t.Errorf("provider = %q, want openai", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "gpt-4o-mini" {
		t.Errorf("model = %q, want gpt-4o-mini", ctx[FieldModel])
	}
}

func TestWithProviderOmitsEmpty(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithProvider(logger, "", "   ").Info("call")

	if ctx := observed.All()[0].ContextMap(); len(ctx) != 0 {
		t.Errorf("expected no fields, got %v", ctx)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"under limit", "short", 10, "short"},
		{"at limit", "exact", 5, "exact"},
		{"over limit", "hello world", 5, "hello..."},
		{"zero limit", "anything", 0, ""},
		{"trims whitespace", "  padded  ", 10, "padded"},
		{"multibyte runes", "héllo wörld", 5, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.limit); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}
