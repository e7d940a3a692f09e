// Package core contains the domain of the library loan service: the events of the loan ledger,
// the LoanRecord and Book read models derived from them, the loan rules' error kinds and the
// DecisionResult returned by the pure Decide functions of the command features.
//
// Nothing in here performs I/O. A LoanRecord or a Book's availability is never stored as such,
// it is always projected from the event history (see LoanLedger).
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
