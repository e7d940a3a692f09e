package overdueloans

import (
	"time"
)

const (
	queryType = "OverdueLoans"
)

// Query represents the intent to list all loans which are overdue at Now.
type Query struct {
	Now time.Time
}

// BuildQuery creates a new Query evaluated at now.
func BuildQuery(now time.Time) Query {
	return Query{
		Now: now.UTC(),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
