package logger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

// TraceCore implements zapcore.Core to record error logs as OpenTelemetry
// spans.
type TraceCore struct {
	zapcore.LevelEnabler
	tracer trace.Tracer
	fields []zapcore.Field
}

// NewTraceCore creates a core recording the entries enab allows through
// tracer. Entries below Error are never recorded.
func NewTraceCore(enab zapcore.LevelEnabler, tracer trace.Tracer) zapcore.Core {
	return &TraceCore{
		LevelEnabler: enab,
		tracer:       tracer,
	}
}

// With returns a core adding fields to every recorded span.
func (c *TraceCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(clone.fields[:len(clone.fields):len(clone.fields)], fields...)
	return &clone
}

// Check implements zapcore.Core.
func (c *TraceCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write records the entry as a span named after its category.
func (c *TraceCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if ent.Level < zapcore.ErrorLevel {
		return nil
	}

	_, span := c.tracer.Start(context.Background(), "error."+errorCategory(ent))
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("error.message", ent.Message),
		attribute.String("error.level", ent.Level.String()),
		attribute.String("error.caller", ent.Caller.String()),
	}

	// Encode every field type, not only strings
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range c.fields {
		field.AddTo(enc)
	}
	for _, field := range fields {
		field.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for key := range enc.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		attrs = append(attrs, attribute.String(key, fmt.Sprint(enc.Fields[key])))
	}

	span.SetAttributes(attrs...)
	return nil
}

// Sync implements zapcore.Core. Spans are flushed by the tracer provider.
func (c *TraceCore) Sync() error {
	return nil
}

// errorCategory groups an entry by the package that logged it.
func errorCategory(ent zapcore.Entry) string {
	switch fn := ent.Caller.Function; {
	case strings.Contains(fn, "/pkg/interactivity"):
		return "interactivity"
	case strings.Contains(fn, "/internal/redis"):
		return "redis"
	case strings.Contains(fn, "/internal/bot"):
		return "bot"
	case strings.Contains(fn, "/internal/setup"):
		return "setup"
	default:
		return "application"
	}
}
