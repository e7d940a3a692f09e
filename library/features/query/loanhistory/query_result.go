package loanhistory

import (
	"github.com/AntonStoeckl/library-lending/library/core"
)

// LoanHistory represents all loans of a user, oldest first.
type LoanHistory struct {
	UserID         core.UserIDString
	Loans          []core.LoanRecord
	Count          int
	OpenCount      int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number of the events the result was projected from.
func (r LoanHistory) GetSequenceNumber() uint {
	return r.SequenceNumber
}
