package core

import "errors"

// The error kinds of the loan rules. Decide functions wrap them with the subject's IDs,
// callers match them with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyBorrowed     = errors.New("book is already borrowed")
	ErrBorrowLimitExceeded = errors.New("borrow limit exceeded")
	ErrAlreadyReturned     = errors.New("loan is already returned")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrLoanNotYetReturned  = errors.New("loan is not yet returned")
	ErrAlreadyRated        = errors.New("loan is already rated")
)

// IsBusinessError reports whether err is one of the loan rule violations above,
// as opposed to an infrastructure failure.
func IsBusinessError(err error) bool {
	for _, kind := range []error{
		ErrNotFound,
		ErrAlreadyBorrowed,
		ErrBorrowLimitExceeded,
		ErrAlreadyReturned,
		ErrForbidden,
		ErrInvalidInput,
		ErrLoanNotYetReturned,
		ErrAlreadyRated,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}

	return false
}
