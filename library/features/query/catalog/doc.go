// Package catalog implements the ListBooks query: every book of the catalog with its
// derived availability status, in the order the books were added.
package catalog
