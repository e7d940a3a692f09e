package core

import (
	"slices"
)

// LoanLedger is the projection of the catalog and loan events into books and loan records.
// Books and loans keep the order in which they were added to the history.
type LoanLedger struct {
	books     map[BookIDString]Book
	bookOrder []BookIDString
	loans     map[LoanIDString]*LoanRecord
	loanOrder []LoanIDString
}

// ProjectLoanLedger replays the history. Events for unknown loans are ignored,
// as are repeated returns or ratings of the same loan (the first one counts).
func ProjectLoanLedger(history DomainEvents) LoanLedger {
	ledger := LoanLedger{
		books: make(map[BookIDString]Book),
		loans: make(map[LoanIDString]*LoanRecord),
	}

	for _, event := range history {
		switch e := event.(type) {
		case BookAddedToCatalog:
			if _, exists := ledger.books[e.BookID]; exists {
				continue
			}

			ledger.books[e.BookID] = Book{ID: e.BookID, Title: e.Title, Author: e.Author, Genre: e.Genre}
			ledger.bookOrder = append(ledger.bookOrder, e.BookID)

		case BookBorrowed:
			if _, exists := ledger.loans[e.LoanID]; exists {
				continue
			}

			ledger.loans[e.LoanID] = &LoanRecord{
				ID:         e.LoanID,
				UserID:     e.UserID,
				BookID:     e.BookID,
				BorrowedAt: e.BorrowedAt,
				DueDate:    e.DueDate,
			}
			ledger.loanOrder = append(ledger.loanOrder, e.LoanID)

		case BookReturned:
			if loan, exists := ledger.loans[e.LoanID]; exists && loan.ReturnedAt == nil {
				returnedAt := e.ReturnedAt
				loan.ReturnedAt = &returnedAt
			}

		case LoanRated:
			if loan, exists := ledger.loans[e.LoanID]; exists && loan.Rating == nil {
				rating := e.Rating
				loan.Rating = &rating
			}
		}
	}

	return ledger
}

// Book returns the book with its derived status.
func (l LoanLedger) Book(bookID BookIDString) (Book, bool) {
	book, exists := l.books[bookID]
	if !exists {
		return Book{}, false
	}

	book.Status = BookStatusAvailable
	if _, borrowed := l.OpenLoanForBook(bookID); borrowed {
		book.Status = BookStatusBorrowed
	}

	return book, true
}

// Books returns all books in the order they were added to the catalog.
func (l LoanLedger) Books() []Book {
	books := make([]Book, 0, len(l.bookOrder))
	for _, bookID := range l.bookOrder {
		book, _ := l.Book(bookID)
		books = append(books, book)
	}

	return books
}

// Loan returns the loan with the given ID.
func (l LoanLedger) Loan(loanID LoanIDString) (LoanRecord, bool) {
	loan, exists := l.loans[loanID]
	if !exists {
		return LoanRecord{}, false
	}

	return loan.clone(), true
}

// OpenLoanForBook returns the open loan of a book, there is at most one.
func (l LoanLedger) OpenLoanForBook(bookID BookIDString) (LoanRecord, bool) {
	for _, loanID := range l.loanOrder {
		if loan := l.loans[loanID]; loan.BookID == bookID && loan.IsOpen() {
			return loan.clone(), true
		}
	}

	return LoanRecord{}, false
}

// OpenLoansOfUser returns the open loans of a user, oldest first.
func (l LoanLedger) OpenLoansOfUser(userID UserIDString) []LoanRecord {
	return l.filterLoans(func(loan *LoanRecord) bool {
		return loan.UserID == userID && loan.IsOpen()
	})
}

// LoansOfUser returns all loans of a user, open and returned, oldest first.
func (l LoanLedger) LoansOfUser(userID UserIDString) []LoanRecord {
	return l.filterLoans(func(loan *LoanRecord) bool {
		return loan.UserID == userID
	})
}

// OpenLoans returns all open loans, oldest first.
func (l LoanLedger) OpenLoans() []LoanRecord {
	return l.filterLoans(func(loan *LoanRecord) bool {
		return loan.IsOpen()
	})
}

// RatingsOfBook returns the ratings of all loans of a book.
func (l LoanLedger) RatingsOfBook(bookID BookIDString) []int {
	ratings := make([]int, 0)
	for _, loanID := range l.loanOrder {
		if loan := l.loans[loanID]; loan.BookID == bookID && loan.Rating != nil {
			ratings = append(ratings, *loan.Rating)
		}
	}

	return ratings
}

// filterLoans keeps the history order as tie-breaker for equal BorrowedAt values.
func (l LoanLedger) filterLoans(keep func(loan *LoanRecord) bool) []LoanRecord {
	loans := make([]LoanRecord, 0)
	for _, loanID := range l.loanOrder {
		if loan := l.loans[loanID]; keep(loan) {
			loans = append(loans, loan.clone())
		}
	}

	slices.SortStableFunc(loans, func(a, b LoanRecord) int {
		return a.BorrowedAt.Compare(b.BorrowedAt)
	})

	return loans
}

// AverageRating returns the mean of ratings, nil if there are none.
func AverageRating(ratings []int) *float64 {
	if len(ratings) == 0 {
		return nil
	}

	sum := 0
	for _, rating := range ratings {
		sum += rating
	}

	average := float64(sum) / float64(len(ratings))

	return &average
}
