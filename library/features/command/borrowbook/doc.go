// Package borrowbook implements the Borrow use case: a user borrows an available book.
//
// The decision is based on all catalog and loan events of the book OR the user, so the
// availability of the book and the user's open loans are checked against the same
// consistent snapshot of the ledger. Appending the BookBorrowed event fails with
// eventstore.ErrConcurrencyConflict when another event for the book or the user was appended
// in between; the handler then re-reads and decides again. Two concurrent borrows of the same
// book therefore produce exactly one loan, and the loser gets core.ErrAlreadyBorrowed.
package borrowbook
