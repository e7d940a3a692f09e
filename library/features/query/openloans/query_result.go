package openloans

import (
	"github.com/AntonStoeckl/library-lending/library/core"
)

// OpenLoans represents the open loans of a user, oldest first.
type OpenLoans struct {
	UserID         core.UserIDString
	Loans          []core.LoanRecord
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number of the events the result was projected from.
func (r OpenLoans) GetSequenceNumber() uint {
	return r.SequenceNumber
}
