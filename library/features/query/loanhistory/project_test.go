package loanhistory_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/features/query/loanhistory"
)

func Test_ProjectLoanHistory_IncludesReturnedAndRatedLoans(t *testing.T) {
	// arrange
	fakeClock := time.Unix(0, 0).UTC()
	userID, otherUserID := uuid.New(), uuid.New()
	ratedLoan, openLoan, foreignLoan := uuid.New(), uuid.New(), uuid.New()
	bookA, bookB := uuid.New(), uuid.New()

	history := core.DomainEvents{
		core.BuildBookBorrowed(ratedLoan, bookA, userID, fakeClock, core.DefaultLoanPeriodDays),
		core.BuildBookReturned(ratedLoan, bookA.String(), userID.String(), fakeClock.Add(time.Hour)),
		core.BuildLoanRated(ratedLoan, bookA.String(), userID.String(), 4, fakeClock.Add(2*time.Hour)),
		core.BuildBookBorrowed(foreignLoan, bookA, otherUserID, fakeClock.Add(3*time.Hour), core.DefaultLoanPeriodDays),
		core.BuildBookBorrowed(openLoan, bookB, userID, fakeClock.Add(4*time.Hour), core.DefaultLoanPeriodDays),
	}

	// act
	result := loanhistory.ProjectLoanHistory(history, loanhistory.BuildQuery(userID), 5)

	// assert
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 1, result.OpenCount)
	assert.Equal(t, uint(5), result.GetSequenceNumber())
	require.Len(t, result.Loans, 2)

	assert.Equal(t, ratedLoan.String(), result.Loans[0].ID)
	require.NotNil(t, result.Loans[0].ReturnedAt)
	require.NotNil(t, result.Loans[0].Rating)
	assert.Equal(t, 4, *result.Loans[0].Rating)

	assert.Equal(t, openLoan.String(), result.Loans[1].ID)
	assert.True(t, result.Loans[1].IsOpen())
}

func Test_ProjectLoanHistory_ReturnsEmptyHistory_ForUnknownUser(t *testing.T) {
	// act
	result := loanhistory.ProjectLoanHistory(core.DomainEvents{}, loanhistory.BuildQuery(uuid.New()), 0)

	// assert
	assert.Equal(t, 0, result.Count)
	assert.NotNil(t, result.Loans)
}
