package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the structured logging key for the orchestrator run identifier.
	FieldRunID = "run_id"
	// FieldCase is the structured logging key for the investigation name.
	FieldCase = "case"
	// FieldStage is the structured logging key for workflow stage names.
	FieldStage = "stage"
	// FieldEventType classifies a record for filtering (stage_start, script_failed, ...).
	FieldEventType = "event_type"
	// FieldErrorKind carries the failure taxonomy label.
	FieldErrorKind = "error_kind"
	// FieldErrorHint suggests the operator's next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldScript is the script path relative to the scripts directory.
	FieldScript = "script"
	// FieldOutcome is the classified result of one script run.
	FieldOutcome  = "outcome"
	FieldExitCode = "exit_code"
	// FieldAlert flags warnings or anomalies that should stand out.
	FieldAlert = "alert"
)

type contextKey string

const (
	caseKey  contextKey = "case"
	stageKey contextKey = "stage"
	runIDKey contextKey = "run_id"
)

// WithCase annotates ctx with the investigation name.
func WithCase(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, caseKey, name)
}

// WithStage annotates ctx with the workflow stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// WithRunID annotates ctx with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// CaseFromContext returns the investigation name if present.
func CaseFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, caseKey)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, stageKey)
}

// RunIDFromContext returns the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, runIDKey)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if name, ok := CaseFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCase, name))
	}
	if stage, ok := StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
