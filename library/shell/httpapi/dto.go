package httpapi

import (
	"time"

	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/features/query/bookdetails"
)

type addBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

type rateLoanRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

type loanResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at"`
	Rating     *int       `json:"rating"`
	Overdue    bool       `json:"overdue"`
}

type loansResponse struct {
	Loans []loanResponse `json:"loans"`
	Count int            `json:"count"`
}

type bookResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Genre         string   `json:"genre"`
	Status        string   `json:"status"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	RatingCount   *int     `json:"rating_count,omitempty"`
}

type booksResponse struct {
	Books []bookResponse `json:"books"`
	Count int            `json:"count"`
}

func toLoanResponse(loan core.LoanRecord, overdue bool) loanResponse {
	return loanResponse{
		ID:         loan.ID,
		UserID:     loan.UserID,
		BookID:     loan.BookID,
		BorrowedAt: loan.BorrowedAt,
		DueDate:    loan.DueDate,
		ReturnedAt: loan.ReturnedAt,
		Rating:     loan.Rating,
		Overdue:    overdue,
	}
}

func toBookResponse(book core.Book) bookResponse {
	return bookResponse{
		ID:     book.ID,
		Title:  book.Title,
		Author: book.Author,
		Genre:  book.Genre,
		Status: string(book.Status),
	}
}

func toBookDetailsResponse(details bookdetails.BookDetails) bookResponse {
	response := toBookResponse(details.Book)
	response.AverageRating = details.AverageRating
	ratingCount := details.RatingCount
	response.RatingCount = &ratingCount

	return response
}
