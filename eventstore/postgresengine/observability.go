package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

const (
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgBuildLockQueryFailed     = "failed to build advisory lock query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBeginTxFailed            = "failed to begin append transaction"
	logMsgAcquireLockFailed        = "failed to acquire advisory lock"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgCommitFailed             = "failed to commit append transaction"
	logMsgRollbackFailed           = "failed to roll back append transaction"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventstore operation: "

	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrEventType        = "event_type"
	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrExpectedEvents   = "expected_events"
	logAttrRowsAffected     = "rows_affected"
	logAttrExpectedSequence = "expected_sequence"

	operationQuery  = "query"
	operationAppend = "append"
	operationLock   = "lock"

	spanNameQuery  = "eventstore.query"
	spanNameAppend = "eventstore.append"

	spanAttrOperation      = "operation"
	spanAttrEventCount     = "event_count"
	spanAttrEventType      = "event_type"
	spanAttrMaxSequence    = "max_sequence"
	spanAttrExpectedSeq    = "expected_sequence"
	spanAttrExpectedEvents = "expected_events"
	spanAttrRowsAffected   = "rows_affected"
	spanAttrDurationMS     = "duration_ms"
	spanAttrErrorType      = "error_type"

	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsQueried        = "eventstore_events_queried_total"
	metricEventsAppended       = "eventstore_events_appended_total"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"

	labelStatus       = "status"
	labelConflictType = "conflict_type"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery          = "build_query"
	errorTypeDatabaseQuery       = "database_query"
	errorTypeRowScan             = "row_scan"
	errorTypeDatabaseExec        = "database_exec"
	errorTypeConcurrencyConflict = "concurrency_conflict"
)

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", toMilliseconds(d))
}

/*** Logging: both loggers receive every record if both are configured ***/

func (es *EventStore) logQueryBoth(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

func (es *EventStore) logOperationBoth(ctx context.Context, action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

func (es *EventStore) logWarnBoth(ctx context.Context, message string, args ...any) {
	if es.logger != nil {
		es.logger.Warn(message, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.WarnContext(ctx, message, args...)
	}
}

func (es *EventStore) logErrorBoth(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if es.logger != nil {
		es.logger.Error(message, allArgs...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

/*** Metrics ***/

func (es *EventStore) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	es.metricsCollector.RecordDuration(metric, duration, labels)
}

func (es *EventStore) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	es.metricsCollector.IncrementCounter(metric, labels)
}

func (es *EventStore) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	es.metricsCollector.RecordValue(metric, value, labels)
}

type queryMetricsObserver struct {
	es  *EventStore
	ctx context.Context
}

type appendMetricsObserver struct {
	es  *EventStore
	ctx context.Context
}

func (es *EventStore) startQueryMetrics(ctx context.Context) *queryMetricsObserver {
	return &queryMetricsObserver{es: es, ctx: ctx}
}

func (es *EventStore) startAppendMetrics(ctx context.Context) *appendMetricsObserver {
	return &appendMetricsObserver{es: es, ctx: ctx}
}

func (o *queryMetricsObserver) recordSuccess(eventStream eventstore.StorableEvents, duration time.Duration) {
	if o.es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operationQuery, labelStatus: statusSuccess}
	o.es.recordDuration(o.ctx, metricQueryDuration, duration, labels)
	o.es.recordValue(o.ctx, metricEventsQueried, float64(len(eventStream)), labels)
}

func (o *queryMetricsObserver) recordError(errorType string, duration time.Duration) {
	if o.es.metricsCollector == nil {
		return
	}

	o.es.recordDuration(o.ctx, metricQueryDuration, duration, map[string]string{spanAttrOperation: operationQuery, labelStatus: statusError})
	o.es.incrementCounter(o.ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operationQuery,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
}

func (o *appendMetricsObserver) recordSuccess(eventCount int, duration time.Duration) {
	if o.es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operationAppend, labelStatus: statusSuccess}
	o.es.recordDuration(o.ctx, metricAppendDuration, duration, labels)
	o.es.recordValue(o.ctx, metricEventsAppended, float64(eventCount), labels)
}

func (o *appendMetricsObserver) recordError(errorType string, duration time.Duration) {
	if o.es.metricsCollector == nil {
		return
	}

	o.es.recordDuration(o.ctx, metricAppendDuration, duration, map[string]string{spanAttrOperation: operationAppend, labelStatus: statusError})
	o.es.incrementCounter(o.ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operationAppend,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
}

func (o *appendMetricsObserver) recordConcurrencyConflict() {
	if o.es.metricsCollector == nil {
		return
	}

	o.es.incrementCounter(o.ctx, metricConcurrencyConflicts, map[string]string{
		spanAttrOperation: operationAppend,
		labelConflictType: "concurrency",
	})
}

/*** Tracing ***/

type queryTracingObserver struct {
	es   *EventStore
	span SpanContext
}

type appendTracingObserver struct {
	es   *EventStore
	span SpanContext
}

func (es *EventStore) startQueryTracing(ctx context.Context) (*queryTracingObserver, context.Context) {
	if es.tracingCollector == nil {
		return &queryTracingObserver{es: es}, ctx
	}

	newCtx, span := es.tracingCollector.StartSpan(ctx, spanNameQuery, map[string]string{spanAttrOperation: operationQuery})

	return &queryTracingObserver{es: es, span: span}, newCtx
}

func (es *EventStore) startAppendTracing(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (*appendTracingObserver, context.Context) {

	if es.tracingCollector == nil {
		return &appendTracingObserver{es: es}, ctx
	}

	attrs := map[string]string{
		spanAttrOperation:   operationAppend,
		spanAttrEventCount:  fmt.Sprintf("%d", len(events)),
		spanAttrExpectedSeq: fmt.Sprintf("%d", expectedMaxSequenceNumber),
	}

	if len(events) > 0 {
		attrs[spanAttrEventType] = events[0].EventType
	}

	newCtx, span := es.tracingCollector.StartSpan(ctx, spanNameAppend, attrs)

	return &appendTracingObserver{es: es, span: span}, newCtx
}

func (o *queryTracingObserver) finishSuccess(
	eventStream eventstore.StorableEvents,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	duration time.Duration,
) {

	if o.span == nil {
		return
	}

	attrs := map[string]string{
		spanAttrEventCount:  fmt.Sprintf("%d", len(eventStream)),
		spanAttrMaxSequence: fmt.Sprintf("%d", maxSequenceNumber),
		spanAttrDurationMS:  formatMilliseconds(duration),
	}

	o.span.SetStatus(statusSuccess)
	o.es.tracingCollector.FinishSpan(o.span, statusSuccess, attrs)
}

func (o *queryTracingObserver) finishError(errorType string, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(statusError)
	o.es.tracingCollector.FinishSpan(o.span, statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}

func (o *appendTracingObserver) finishSuccess(rowsAffected int64, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(statusSuccess)
	o.es.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected),
		spanAttrDurationMS:   formatMilliseconds(duration),
	})
}

func (o *appendTracingObserver) finishError(errorType string, duration time.Duration) {
	o.finishErrorWithAttrs(errorType, map[string]string{spanAttrDurationMS: formatMilliseconds(duration)})
}

func (o *appendTracingObserver) finishErrorWithAttrs(errorType string, attrs map[string]string) {
	if o.span == nil {
		return
	}

	allAttrs := map[string]string{spanAttrErrorType: errorType}
	for key, value := range attrs {
		allAttrs[key] = value
	}

	o.span.SetStatus(statusError)
	o.es.tracingCollector.FinishSpan(o.span, statusError, allAttrs)
}
