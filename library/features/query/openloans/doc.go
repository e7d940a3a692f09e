// Package openloans implements the ListOpenLoans query: the loans a user has not returned yet.
//
// This is a read-only Query -> Project operation. It reads with eventual consistency,
// so with a read replica configured the result may lag behind the latest borrow or return.
package openloans
