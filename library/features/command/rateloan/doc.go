// Package rateloan implements the RateLoan use case: the borrower rates a book once the loan is closed.
//
// A loan can be rated exactly once. Two concurrent ratings of the same loan race on the
// loan's events, and the loser is rejected with core.ErrAlreadyRated after its retry.
package rateloan
