package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/shell/logging"
)

var (
	_ eventstore.Logger           = (*logging.Logger)(nil)
	_ eventstore.ContextualLogger = (*logging.Logger)(nil)
)

func givenObservedLogger(t *testing.T) (*logging.Logger, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)

	return logging.NewFromZap(zap.New(core)), logs
}

func Test_Logger_WritesKeyValuePairs_OnAllLevels(t *testing.T) {
	// arrange
	logger, logs := givenObservedLogger(t)

	// act
	logger.Debug("sql executed", "query", "SELECT 1")
	logger.Info("book borrowed", "book_id", "b-1", "user_id", "u-1")
	logger.Warn("rollback failed")
	logger.Error("append failed", "error", "boom")

	// assert
	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "b-1", entries[1].ContextMap()["book_id"])
	assert.Equal(t, "u-1", entries[1].ContextMap()["user_id"])
}

func Test_Logger_RedactsSecrets(t *testing.T) {
	// arrange
	logger, logs := givenObservedLogger(t)

	// act
	logger.Info("connecting", "database_url", "postgres://lib:secret@db/library", "adapter", "pgx")

	// assert
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["database_url"])
	assert.Equal(t, "pgx", fields["adapter"])
}

func Test_Logger_ContextVariants_AddTraceAndSpanID_WhenSpanIsActive(t *testing.T) {
	// arrange
	logger, logs := givenObservedLogger(t)
	tracer := sdktrace.NewTracerProvider().Tracer("library")
	ctx, span := tracer.Start(t.Context(), "commandhandler.handle")
	defer span.End()

	// act
	logger.InfoContext(ctx, "book borrowed", "book_id", "b-1")

	// assert
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func Test_Logger_ContextVariants_OmitTrace_WithoutSpan(t *testing.T) {
	// arrange
	logger, logs := givenObservedLogger(t)

	// act
	logger.WarnContext(t.Context(), "concurrency conflict detected")

	// assert
	_, found := logs.All()[0].ContextMap()["trace_id"]
	assert.False(t, found)
}

func Test_Logger_With_AttachesFields(t *testing.T) {
	// arrange
	logger, logs := givenObservedLogger(t)

	// act
	logger.With("component", "httpapi").Info("listening")

	// assert
	assert.Equal(t, "httpapi", logs.All()[0].ContextMap()["component"])
}
