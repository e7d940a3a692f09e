// Package bookdetails implements the GetBook and AverageRating reads of the catalog.
//
// The availability status of the book is derived from its open loan, and the average rating
// is the mean over all ratings attached to its loans. A book without ratings has no average.
package bookdetails
