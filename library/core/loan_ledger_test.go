package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/core"
)

func Test_DueDateFor_AddsLoanPeriodToBorrowedAt(t *testing.T) {
	// arrange
	borrowedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// act
	dueDate := core.DueDateFor(borrowedAt, core.DefaultLoanPeriodDays)

	// assert
	assert.Equal(t, time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), dueDate)
}

func Test_LoanRecord_IsOverdue(t *testing.T) {
	fakeClock := time.Unix(0, 0).UTC()
	returnedAt := fakeClock.Add(20 * 24 * time.Hour)

	testCases := []struct {
		name     string
		loan     core.LoanRecord
		now      time.Time
		expected bool
	}{
		{
			name:     "open loan before due date",
			loan:     core.LoanRecord{DueDate: fakeClock.Add(14 * 24 * time.Hour)},
			now:      fakeClock.Add(13 * 24 * time.Hour),
			expected: false,
		},
		{
			name:     "open loan exactly at due date",
			loan:     core.LoanRecord{DueDate: fakeClock.Add(14 * 24 * time.Hour)},
			now:      fakeClock.Add(14 * 24 * time.Hour),
			expected: false,
		},
		{
			name:     "open loan one second after due date",
			loan:     core.LoanRecord{DueDate: fakeClock.Add(14 * 24 * time.Hour)},
			now:      fakeClock.Add(14*24*time.Hour + time.Second),
			expected: true,
		},
		{
			name:     "returned loan after due date",
			loan:     core.LoanRecord{DueDate: fakeClock.Add(14 * 24 * time.Hour), ReturnedAt: &returnedAt},
			now:      fakeClock.Add(30 * 24 * time.Hour),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			overdue := tc.loan.IsOverdue(tc.now)

			// assert
			assert.Equal(t, tc.expected, overdue)
		})
	}
}

func Test_ProjectLoanLedger_DerivesBookStatusFromOpenLoans(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	bookID, userID, loanID := uuid.New(), uuid.New(), uuid.New()
	added := core.BuildBookAddedToCatalog(bookID, "Dune", "Frank Herbert", "Science Fiction", fakeClock)
	borrowed := core.BuildBookBorrowed(loanID, bookID, userID, fakeClock.Add(time.Hour), core.DefaultLoanPeriodDays)
	returned := core.BuildBookReturned(loanID, bookID.String(), userID.String(), fakeClock.Add(2*time.Hour))

	// act
	whileBorrowed := core.ProjectLoanLedger(core.DomainEvents{added, borrowed})
	afterReturn := core.ProjectLoanLedger(core.DomainEvents{added, borrowed, returned})

	// assert
	book, found := whileBorrowed.Book(bookID.String())
	require.True(t, found)
	assert.Equal(t, core.BookStatusBorrowed, book.Status)

	book, found = afterReturn.Book(bookID.String())
	require.True(t, found)
	assert.Equal(t, core.BookStatusAvailable, book.Status)
	assert.Equal(t, "Dune", book.Title)
}

func Test_ProjectLoanLedger_AppliesFirstReturnAndFirstRatingOnly(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	bookID, userID, loanID := uuid.New(), uuid.New(), uuid.New()
	history := core.DomainEvents{
		core.BuildBookBorrowed(loanID, bookID, userID, fakeClock, core.DefaultLoanPeriodDays),
		core.BuildBookReturned(loanID, bookID.String(), userID.String(), fakeClock.Add(time.Hour)),
		core.BuildBookReturned(loanID, bookID.String(), userID.String(), fakeClock.Add(2*time.Hour)),
		core.BuildLoanRated(loanID, bookID.String(), userID.String(), 4, fakeClock.Add(3*time.Hour)),
		core.BuildLoanRated(loanID, bookID.String(), userID.String(), 1, fakeClock.Add(4*time.Hour)),
	}

	// act
	ledger := core.ProjectLoanLedger(history)

	// assert
	loan, found := ledger.Loan(loanID.String())
	require.True(t, found)
	require.NotNil(t, loan.ReturnedAt)
	require.NotNil(t, loan.Rating)
	assert.Equal(t, fakeClock.Add(time.Hour), *loan.ReturnedAt)
	assert.Equal(t, 4, *loan.Rating)
	assert.Equal(t, []int{4}, ledger.RatingsOfBook(bookID.String()))
}

func Test_LoanLedger_OpenLoansOfUser_SortedByBorrowedAt(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	userID := uuid.New()
	early, late, returned := uuid.New(), uuid.New(), uuid.New()
	bookA, bookB, bookC := uuid.New(), uuid.New(), uuid.New()
	history := core.DomainEvents{
		core.BuildBookBorrowed(late, bookA, userID, fakeClock.Add(2*time.Hour), core.DefaultLoanPeriodDays),
		core.BuildBookBorrowed(early, bookB, userID, fakeClock.Add(time.Hour), core.DefaultLoanPeriodDays),
		core.BuildBookBorrowed(returned, bookC, userID, fakeClock, core.DefaultLoanPeriodDays),
		core.BuildBookReturned(returned, bookC.String(), userID.String(), fakeClock.Add(3*time.Hour)),
		core.BuildBookBorrowed(uuid.New(), uuid.New(), uuid.New(), fakeClock, core.DefaultLoanPeriodDays),
	}

	// act
	ledger := core.ProjectLoanLedger(history)

	// assert
	openLoans := ledger.OpenLoansOfUser(userID.String())
	require.Len(t, openLoans, 2)
	assert.Equal(t, early.String(), openLoans[0].ID)
	assert.Equal(t, late.String(), openLoans[1].ID)
	assert.Len(t, ledger.LoansOfUser(userID.String()), 3)
	assert.Len(t, ledger.OpenLoans(), 3)
}

func Test_LoanLedger_Loan_ReturnsCopies(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	bookID, userID, loanID := uuid.New(), uuid.New(), uuid.New()
	ledger := core.ProjectLoanLedger(core.DomainEvents{
		core.BuildBookBorrowed(loanID, bookID, userID, fakeClock, core.DefaultLoanPeriodDays),
		core.BuildBookReturned(loanID, bookID.String(), userID.String(), fakeClock.Add(time.Hour)),
		core.BuildLoanRated(loanID, bookID.String(), userID.String(), 5, fakeClock.Add(2*time.Hour)),
	})

	// act
	loan, _ := ledger.Loan(loanID.String())
	*loan.Rating = 1
	*loan.ReturnedAt = fakeClock

	// assert
	again, _ := ledger.Loan(loanID.String())
	assert.Equal(t, 5, *again.Rating)
	assert.Equal(t, fakeClock.Add(time.Hour), *again.ReturnedAt)
}

func Test_AverageRating(t *testing.T) {
	// act
	none := core.AverageRating(nil)
	some := core.AverageRating([]int{5, 4, 4})

	// assert
	assert.Nil(t, none)
	require.NotNil(t, some)
	assert.InDelta(t, 4.333, *some, 0.001)
}

func Test_IsBusinessError(t *testing.T) {
	assert.True(t, core.IsBusinessError(core.ErrAlreadyBorrowed))
	assert.False(t, core.IsBusinessError(assert.AnError))
	assert.False(t, core.IsBusinessError(nil))
}
