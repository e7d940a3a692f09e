package returnbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/features/command/returnbook"
)

func Test_Decide_Success_WhenBorrowerReturnsOpenLoan(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	loanID, bookID, userID := uuid.New(), uuid.New(), uuid.New()
	history := core.DomainEvents{
		core.BuildBookBorrowed(loanID, bookID, userID, fakeClock, core.DefaultLoanPeriodDays),
	}

	// act
	result := returnbook.Decide(history, returnbook.BuildCommand(loanID, userID, fakeClock.Add(time.Hour)))

	// assert
	require.True(t, result.HasEventToAppend())
	event, ok := result.Event.(core.BookReturned)
	require.True(t, ok)
	assert.Equal(t, loanID.String(), event.LoanID)
	assert.Equal(t, bookID.String(), event.BookID)
	assert.Equal(t, userID.String(), event.UserID)
	assert.Equal(t, fakeClock.Add(time.Hour), event.ReturnedAt)
}

func Test_Decide_Success_WhenLoanIsOverdue(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	loanID, bookID, userID := uuid.New(), uuid.New(), uuid.New()
	history := core.DomainEvents{
		core.BuildBookBorrowed(loanID, bookID, userID, fakeClock, core.DefaultLoanPeriodDays),
	}

	// act
	result := returnbook.Decide(history, returnbook.BuildCommand(loanID, userID, fakeClock.AddDate(0, 1, 0)))

	// assert
	assert.True(t, result.HasEventToAppend())
}

func Test_Decide_BusinessErrors(t *testing.T) {
	fakeClock := time.Unix(0, 0).UTC()
	loanID, bookID, userID, otherUserID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	borrowed := core.BuildBookBorrowed(loanID, bookID, userID, fakeClock, core.DefaultLoanPeriodDays)
	returned := core.BuildBookReturned(loanID, bookID.String(), userID.String(), fakeClock.Add(time.Hour))

	testCases := []struct {
		name     string
		history  core.DomainEvents
		actorID  uuid.UUID
		expected error
	}{
		{
			name:     "loan does not exist",
			history:  core.DomainEvents{},
			actorID:  userID,
			expected: core.ErrNotFound,
		},
		{
			name:     "loan is already returned",
			history:  core.DomainEvents{borrowed, returned},
			actorID:  userID,
			expected: core.ErrAlreadyReturned,
		},
		{
			name:     "actor is not the borrower",
			history:  core.DomainEvents{borrowed},
			actorID:  otherUserID,
			expected: core.ErrForbidden,
		},
		{
			name:     "closed loan of another user",
			history:  core.DomainEvents{borrowed, returned},
			actorID:  otherUserID,
			expected: core.ErrAlreadyReturned,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := returnbook.Decide(tc.history, returnbook.BuildCommand(loanID, tc.actorID, fakeClock.Add(2*time.Hour)))

			// assert
			assert.False(t, result.HasEventToAppend())
			assert.ErrorIs(t, result.HasError(), tc.expected)
		})
	}
}
