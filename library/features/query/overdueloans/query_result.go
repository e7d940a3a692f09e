package overdueloans

import (
	"time"

	"github.com/AntonStoeckl/library-lending/library/core"
)

// OverdueLoans represents the loans overdue at Now, longest overdue first.
type OverdueLoans struct {
	Now            time.Time
	Loans          []core.LoanRecord
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number of the events the result was projected from.
func (r OverdueLoans) GetSequenceNumber() uint {
	return r.SequenceNumber
}
