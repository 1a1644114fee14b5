package logger_test

import (
	"testing"

	"github.com/robalyx/interactivity/internal/setup/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTraceCoreRecordsErrors(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	log := zap.New(logger.NewTraceCore(zapcore.DebugLevel, provider.Tracer("logs")), zap.AddCaller()).
		With(zap.String("command", "confirm"))

	log.Warn("slow request")
	log.Error("failed to edit message", zap.Int("attempt", 2))

	spans := recorder.Ended()
	require.Len(t, spans, 1, "only errors become spans")
	assert.Equal(t, "error.setup", spans[0].Name())

	attrs := make(map[attribute.Key]string)
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value.AsString()
	}
	assert.Equal(t, "failed to edit message", attrs["error.message"])
	assert.Equal(t, "error", attrs["error.level"])
	assert.Contains(t, attrs["error.caller"], "trace_core_test.go")
	assert.Equal(t, "confirm", attrs["command"])
	assert.Equal(t, "2", attrs["attempt"])
}

func TestTraceCoreRespectsLevel(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	log := zap.New(logger.NewTraceCore(zapcore.DPanicLevel, provider.Tracer("logs")))
	log.Error("below the core level")

	assert.Empty(t, recorder.Ended())
}
