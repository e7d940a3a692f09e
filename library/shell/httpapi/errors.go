package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/library/core"
)

var (
	// ErrMissingIdentity is returned when X-User-ID is absent or not a UUID.
	ErrMissingIdentity = errors.New("missing or invalid X-User-ID header")
)

// Error codes of the JSON error envelope.
const (
	codeNotFound            = "not_found"
	codeAlreadyBorrowed     = "already_borrowed"
	codeBorrowLimitExceeded = "borrow_limit_exceeded"
	codeAlreadyReturned     = "already_returned"
	codeForbidden           = "forbidden"
	codeInvalidInput        = "invalid_input"
	codeLoanNotYetReturned  = "loan_not_yet_returned"
	codeAlreadyRated        = "already_rated"
	codeUnauthenticated     = "unauthenticated"
	codeBusy                = "busy"
	codeInternal            = "internal"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{target: core.ErrNotFound, status: http.StatusNotFound, code: codeNotFound},
	{target: core.ErrAlreadyBorrowed, status: http.StatusConflict, code: codeAlreadyBorrowed},
	{target: core.ErrBorrowLimitExceeded, status: http.StatusConflict, code: codeBorrowLimitExceeded},
	{target: core.ErrAlreadyReturned, status: http.StatusConflict, code: codeAlreadyReturned},
	{target: core.ErrForbidden, status: http.StatusForbidden, code: codeForbidden},
	{target: core.ErrInvalidInput, status: http.StatusBadRequest, code: codeInvalidInput},
	{target: core.ErrLoanNotYetReturned, status: http.StatusConflict, code: codeLoanNotYetReturned},
	{target: core.ErrAlreadyRated, status: http.StatusConflict, code: codeAlreadyRated},
	{target: ErrMissingIdentity, status: http.StatusUnauthorized, code: codeUnauthenticated},
	{target: eventstore.ErrConcurrencyConflict, status: http.StatusServiceUnavailable, code: codeBusy},
	{target: context.DeadlineExceeded, status: http.StatusServiceUnavailable, code: codeBusy},
}

// StatusFor maps an error returned by the loan manager to an HTTP status code and an error code.
func StatusFor(err error) (int, string) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.target) {
			return mapping.status, mapping.code
		}
	}

	return http.StatusInternalServerError, codeInternal
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

// respondError writes the error envelope. Internal errors are not echoed to the client.
func respondError(c *gin.Context, err error) {
	status, code := StatusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorEnvelope{Error: apiError{Message: message, Code: code}})
}
