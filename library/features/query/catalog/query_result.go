package catalog

import (
	"github.com/AntonStoeckl/library-lending/library/core"
)

// Catalog represents all books in the order they were added.
type Catalog struct {
	Books          []core.Book
	Count          int
	AvailableCount int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number of the events the result was projected from.
func (r Catalog) GetSequenceNumber() uint {
	return r.SequenceNumber
}
