package bookdetails

import (
	"github.com/AntonStoeckl/library-lending/library/core"
)

// BookDetails represents a book with its derived status and rating summary.
// AverageRating is nil when no loan of the book was rated.
type BookDetails struct {
	Book           core.Book
	AverageRating  *float64
	RatingCount    int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number of the events the result was projected from.
func (r BookDetails) GetSequenceNumber() uint {
	return r.SequenceNumber
}
