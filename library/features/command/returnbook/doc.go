// Package returnbook implements the Return use case: the borrower of a loan returns the book.
//
// The decision reads all events of the loan. Appending the BookReturned event fails with
// eventstore.ErrConcurrencyConflict if another return of the same loan won the race; the retry
// then sees the loan as closed and rejects with core.ErrAlreadyReturned.
package returnbook
