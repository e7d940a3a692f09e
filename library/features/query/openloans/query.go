package openloans

import (
	"github.com/google/uuid"
)

const (
	queryType = "ListOpenLoans"
)

// Query represents the intent to list the open loans of a user.
type Query struct {
	UserID uuid.UUID
}

// BuildQuery creates a new Query with the provided user ID.
func BuildQuery(userID uuid.UUID) Query {
	return Query{
		UserID: userID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
