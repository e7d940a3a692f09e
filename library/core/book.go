package core

// BookStatus is the availability of a book.
type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
	BookStatusBorrowed  BookStatus = "borrowed"
)

// Book is a catalog entry. Status is derived from the loan ledger:
// it is BookStatusBorrowed if and only if an open loan for the book exists.
type Book struct {
	ID     BookIDString
	Title  string
	Author string
	Genre  string
	Status BookStatus
}
