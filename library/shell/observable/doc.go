// Package observable wraps command and query handlers with metrics, tracing and logging,
// so the handlers themselves contain only the Query, Decide, Append workflow.
//
// The wrappers are applied externally at wiring time:
//
//	coreHandler := borrowbook.NewCommandHandler(eventStore)
//
//	borrowHandler, err := observable.NewCommandWrapper[borrowbook.Command, core.LoanRecord](
//		coreHandler,
//		observable.WithCommandMetrics[borrowbook.Command, core.LoanRecord](metricsCollector),
//		observable.WithCommandTracing[borrowbook.Command, core.LoanRecord](tracingCollector),
//		observable.WithCommandContextualLogging[borrowbook.Command, core.LoanRecord](logger),
//	)
//
// A loan rule rejection (e.g. core.ErrBorrowLimitExceeded) is recorded with status "rejected",
// logged at info level, and its span is not marked as failed. Infrastructure failures are recorded
// with status "error", "canceled", "timeout" or "concurrency_conflict".
package observable
