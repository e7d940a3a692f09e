// Package overdueloans implements the OverdueLoans query: all open loans whose due date lies
// before the query's Now.
//
// Overdue is evaluated at read time against the given instant and never stored.
package overdueloans
