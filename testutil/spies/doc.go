// Package spies provides recording test doubles for the observability interfaces
// (Logger, ContextualLogger, MetricsCollector, TracingCollector).
//
// All spies are safe for concurrent use, so they can be attached to handlers in the concurrency tests.
package spies
