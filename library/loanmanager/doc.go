// Package loanmanager is the entry point to the loan management core.
//
// Manager composes the command and query handlers of library/features, wraps each of them with
// the observable wrappers, and supplies the clock and the ID generator. The caller passes the
// identity of the acting user explicitly with every operation; authentication happens upstream.
//
// Business rule violations are returned as errors wrapping the sentinels of library/core and are
// never retried. Concurrency conflicts are retried inside the command handlers.
package loanmanager
