package loanmanager

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/rateloan"
	"github.com/AntonStoeckl/library-lending/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending/library/features/query/catalog"
	"github.com/AntonStoeckl/library-lending/library/features/query/loanhistory"
	"github.com/AntonStoeckl/library-lending/library/features/query/openloans"
	"github.com/AntonStoeckl/library-lending/library/features/query/overdueloans"
	"github.com/AntonStoeckl/library-lending/library/shell"
	"github.com/AntonStoeckl/library-lending/library/shell/observable"
)

// Manager exposes the loan operations and the catalog reads of the library.
type Manager struct {
	clock              func() time.Time
	newID              func() uuid.UUID
	loanPeriodDays     int
	maxConcurrentLoans int
	retryOptions       []shell.RetryOption

	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector

	addBook    *observable.CommandWrapper[addbook.Command, core.Book]
	borrowBook *observable.CommandWrapper[borrowbook.Command, core.LoanRecord]
	returnBook *observable.CommandWrapper[returnbook.Command, core.LoanRecord]
	rateLoan   *observable.CommandWrapper[rateloan.Command, core.LoanRecord]

	openLoans    *observable.QueryWrapper[openloans.Query, openloans.OpenLoans]
	loanHistory  *observable.QueryWrapper[loanhistory.Query, loanhistory.LoanHistory]
	overdueLoans *observable.QueryWrapper[overdueloans.Query, overdueloans.OverdueLoans]
	bookDetails  *observable.QueryWrapper[bookdetails.Query, bookdetails.BookDetails]
	catalog      *observable.QueryWrapper[catalog.Query, catalog.Catalog]
}

// NewManager creates a Manager on top of the given event store.
// Without options it uses time.Now, uuid.New and the default loan policy of library/core.
func NewManager(eventStore shell.EventStore, opts ...Option) (*Manager, error) {
	m := &Manager{
		clock:              time.Now,
		newID:              uuid.New,
		loanPeriodDays:     core.DefaultLoanPeriodDays,
		maxConcurrentLoans: core.DefaultMaxConcurrentLoans,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	if err := m.buildCommandHandlers(eventStore); err != nil {
		return nil, err
	}

	if err := m.buildQueryHandlers(eventStore); err != nil {
		return nil, err
	}

	return m, nil
}

// AddBook adds a new book to the catalog.
func (m *Manager) AddBook(ctx context.Context, title, author, genre string) (core.Book, error) {
	book, _, err := m.addBook.Handle(ctx, addbook.BuildCommand(m.newID(), title, author, genre, m.clock()))

	return book, err
}

// Borrow lends the book to the user and returns the new open loan.
func (m *Manager) Borrow(ctx context.Context, userID, bookID uuid.UUID) (core.LoanRecord, error) {
	loan, _, err := m.borrowBook.Handle(ctx, borrowbook.BuildCommand(m.newID(), bookID, userID, m.clock()))

	return loan, err
}

// Return closes the loan on behalf of actorID, who must be the borrower.
func (m *Manager) Return(ctx context.Context, actorID, loanID uuid.UUID) (core.LoanRecord, error) {
	loan, _, err := m.returnBook.Handle(ctx, returnbook.BuildCommand(loanID, actorID, m.clock()))

	return loan, err
}

// RateLoan attaches a rating to the returned loan on behalf of actorID, who must be the borrower.
func (m *Manager) RateLoan(ctx context.Context, actorID, loanID uuid.UUID, rating int) (core.LoanRecord, error) {
	loan, _, err := m.rateLoan.Handle(ctx, rateloan.BuildCommand(loanID, actorID, rating, m.clock()))

	return loan, err
}

// IsOverdue reports whether the loan is open and past its due date at the manager's current time.
func (m *Manager) IsOverdue(loan core.LoanRecord) bool {
	return loan.IsOverdue(m.clock())
}

// ListOpenLoans returns the open loans of the user, oldest first.
func (m *Manager) ListOpenLoans(ctx context.Context, userID uuid.UUID) ([]core.LoanRecord, error) {
	result, err := m.openLoans.Handle(ctx, openloans.BuildQuery(userID))
	if err != nil {
		return nil, err
	}

	return result.Loans, nil
}

// LoanHistory returns all loans of the user, open and returned, oldest first.
func (m *Manager) LoanHistory(ctx context.Context, userID uuid.UUID) ([]core.LoanRecord, error) {
	result, err := m.loanHistory.Handle(ctx, loanhistory.BuildQuery(userID))
	if err != nil {
		return nil, err
	}

	return result.Loans, nil
}

// OverdueLoans returns all loans overdue at the manager's current time.
func (m *Manager) OverdueLoans(ctx context.Context) ([]core.LoanRecord, error) {
	result, err := m.overdueLoans.Handle(ctx, overdueloans.BuildQuery(m.clock()))
	if err != nil {
		return nil, err
	}

	return result.Loans, nil
}

// BookDetails returns the book together with its rating summary.
func (m *Manager) BookDetails(ctx context.Context, bookID uuid.UUID) (bookdetails.BookDetails, error) {
	return m.bookDetails.Handle(ctx, bookdetails.BuildQuery(bookID))
}

// GetBook returns the book with its current availability status.
func (m *Manager) GetBook(ctx context.Context, bookID uuid.UUID) (core.Book, error) {
	details, err := m.BookDetails(ctx, bookID)
	if err != nil {
		return core.Book{}, err
	}

	return details.Book, nil
}

// AverageRating returns the mean rating of the book, nil if it has no ratings yet.
func (m *Manager) AverageRating(ctx context.Context, bookID uuid.UUID) (*float64, error) {
	details, err := m.BookDetails(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return details.AverageRating, nil
}

// ListBooks returns the catalog in the order the books were added.
func (m *Manager) ListBooks(ctx context.Context) ([]core.Book, error) {
	result, err := m.catalog.Handle(ctx, catalog.BuildQuery())
	if err != nil {
		return nil, err
	}

	return result.Books, nil
}
