// Package addbook implements the Add Book to Catalog use case.
//
// The catalog itself is maintained elsewhere; this command seeds books into the loan ledger,
// so they can be borrowed. It follows the Query-Decide-Append pattern with the same
// separation between CommandHandler and the pure Decide function as the loan commands.
//
// Adding a book whose ID is already in the catalog is rejected with core.ErrInvalidInput.
package addbook
