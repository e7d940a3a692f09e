// Package loanhistory implements the LoanHistory query: every loan of a user, open and returned,
// together with its rating.
package loanhistory
