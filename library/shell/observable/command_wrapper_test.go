package observable_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/shell"
	"github.com/AntonStoeckl/library-lending/library/shell/observable"
	"github.com/AntonStoeckl/library-lending/testutil/spies"
)

type testCommand struct{}

func (c testCommand) CommandType() string {
	return "TestCommand"
}

type testCoreHandler struct {
	output string
	result shell.HandlerResult
	err    error
	calls  int
}

func (h *testCoreHandler) Handle(_ context.Context, _ testCommand) (string, shell.HandlerResult, error) {
	h.calls++
	return h.output, h.result, h.err
}

func givenWrappedCommandHandler(
	t *testing.T,
	handler *testCoreHandler,
) (*observable.CommandWrapper[testCommand, string], *spies.MetricsCollectorSpy, *spies.TracingCollectorSpy, *spies.LoggerSpy) {

	t.Helper()

	metrics := spies.NewMetricsCollectorSpy()
	tracing := spies.NewTracingCollectorSpy()
	logger := spies.NewLoggerSpy()

	wrapper, err := observable.NewCommandWrapper[testCommand, string](
		handler,
		observable.WithCommandMetrics[testCommand, string](metrics),
		observable.WithCommandTracing[testCommand, string](tracing),
		observable.WithCommandContextualLogging[testCommand, string](logger),
	)
	require.NoError(t, err)

	return wrapper, metrics, tracing, logger
}

func Test_CommandWrapper_Handle_RecordsSuccess(t *testing.T) {
	// arrange
	handler := &testCoreHandler{output: "loan-1", result: shell.HandlerResult{RetryAttempts: 1, LastErrorType: "none"}}
	wrapper, metrics, tracing, logger := givenWrappedCommandHandler(t, handler)

	// act
	output, result, err := wrapper.Handle(t.Context(), testCommand{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "loan-1", output)
	assert.Equal(t, 1, result.RetryAttempts)
	assert.Equal(t, 1, handler.calls)
	assert.True(t, metrics.HasCounter(shell.CommandHandlerCallsMetric, shell.BuildCommandLabels("TestCommand", shell.StatusSuccess)))
	assert.True(t, metrics.HasDuration(shell.CommandHandlerDurationMetric, shell.BuildCommandLabels("TestCommand", shell.StatusSuccess)))
	assert.Empty(t, metrics.Counters(shell.CommandHandlerRetriesMetric))

	spans := tracing.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, shell.SpanNameCommandHandle, spans[0].Name)
	assert.Equal(t, shell.StatusSuccess, spans[0].Status)
	assert.True(t, spans[0].Finished)

	assert.True(t, logger.HasMessage("info", shell.LogMsgCommandStarted))
	assert.True(t, logger.HasMessage("info", shell.LogMsgCommandCompleted))
}

func Test_CommandWrapper_Handle_RecordsRejection_ForBusinessError(t *testing.T) {
	// arrange
	businessErr := fmt.Errorf("BorrowBook: %w", core.ErrBorrowLimitExceeded)
	handler := &testCoreHandler{result: shell.HandlerResult{RetryAttempts: 1}, err: businessErr}
	wrapper, metrics, tracing, logger := givenWrappedCommandHandler(t, handler)

	// act
	_, _, err := wrapper.Handle(t.Context(), testCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrBorrowLimitExceeded)
	assert.True(t, metrics.HasCounter(shell.CommandHandlerRejectedMetric, map[string]string{shell.LogAttrCommandType: "TestCommand"}))
	assert.Equal(t, shell.StatusRejected, tracing.Spans()[0].Status)
	assert.True(t, logger.HasMessage("info", shell.LogMsgCommandRejected))
	assert.False(t, logger.HasMessage("error", shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_RecordsFailure(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status string
		metric string
	}{
		{name: "infrastructure error", err: errors.New("connection refused"), status: shell.StatusError},
		{name: "canceled", err: context.Canceled, status: shell.StatusCanceled, metric: shell.CommandHandlerCanceledMetric},
		{name: "timeout", err: context.DeadlineExceeded, status: shell.StatusTimeout, metric: shell.CommandHandlerTimeoutMetric},
		{
			name:   "concurrency conflict",
			err:    eventstore.ErrConcurrencyConflict,
			status: shell.StatusConcurrencyConflict,
			metric: shell.CommandHandlerConcurrencyConflictMetric,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			handler := &testCoreHandler{err: tc.err}
			wrapper, metrics, tracing, logger := givenWrappedCommandHandler(t, handler)

			// act
			_, _, err := wrapper.Handle(t.Context(), testCommand{})

			// assert
			assert.ErrorIs(t, err, tc.err)
			assert.True(t, metrics.HasCounter(shell.CommandHandlerCallsMetric, shell.BuildCommandLabels("TestCommand", tc.status)))
			if tc.metric != "" {
				assert.Len(t, metrics.Counters(tc.metric), 1)
			}
			assert.Equal(t, tc.status, tracing.Spans()[0].Status)
			assert.Equal(t, tc.err.Error(), tracing.Spans()[0].EndAttributes[shell.LogAttrError])
			assert.True(t, logger.HasMessage("error", shell.LogMsgCommandFailed))
		})
	}
}

func Test_CommandWrapper_Handle_RecordsRetryMetrics(t *testing.T) {
	// arrange
	handler := &testCoreHandler{
		err: eventstore.ErrConcurrencyConflict,
		result: shell.HandlerResult{
			RetryAttempts:    6,
			TotalRetryDelay:  15 * time.Millisecond,
			LastErrorType:    "concurrency_conflict",
			RetriesExhausted: true,
		},
	}
	wrapper, metrics, _, _ := givenWrappedCommandHandler(t, handler)

	// act
	_, _, _ = wrapper.Handle(t.Context(), testCommand{})

	// assert
	assert.True(t, metrics.HasCounter(shell.CommandHandlerRetriesMetric, map[string]string{
		shell.LogAttrCommandType:   "TestCommand",
		shell.LogAttrAttemptNumber: "5",
		shell.LogAttrErrorType:     "concurrency_conflict",
	}))
	require.Len(t, metrics.Durations(shell.CommandHandlerRetryDelayMetric), 1)
	assert.Equal(t, 15*time.Millisecond, metrics.Durations(shell.CommandHandlerRetryDelayMetric)[0].Duration)
	assert.Len(t, metrics.Counters(shell.CommandHandlerMaxRetriesReachedMetric), 1)
}

func Test_CommandWrapper_Handle_AddsCorrelationID(t *testing.T) {
	// arrange
	handler := &testCoreHandler{}
	wrapper, _, tracing, logger := givenWrappedCommandHandler(t, handler)
	correlationID := uuid.New()
	ctx := shell.WithCorrelationID(t.Context(), correlationID)

	// act
	_, _, _ = wrapper.Handle(ctx, testCommand{})

	// assert
	expected := correlationID.String()
	assert.Equal(t, expected, tracing.Spans()[0].StartAttributes[shell.LogAttrCorrelationID])

	logged, found := logger.RecordsWithMessage(shell.LogMsgCommandStarted)[0].Arg(shell.LogAttrCorrelationID)
	assert.True(t, found)
	assert.Equal(t, expected, logged)
}

func Test_CommandWrapper_Handle_WorksWithoutObservability(t *testing.T) {
	// arrange
	handler := &testCoreHandler{output: "ok"}
	wrapper, err := observable.NewCommandWrapper[testCommand, string](handler)
	require.NoError(t, err)

	// act
	output, _, err := wrapper.Handle(t.Context(), testCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "ok", output)
}
