package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/features/query/bookdetails"
)

// LoanService is the part of loanmanager.Manager the HTTP handlers use.
type LoanService interface {
	AddBook(ctx context.Context, title, author, genre string) (core.Book, error)
	Borrow(ctx context.Context, userID, bookID uuid.UUID) (core.LoanRecord, error)
	Return(ctx context.Context, actorID, loanID uuid.UUID) (core.LoanRecord, error)
	RateLoan(ctx context.Context, actorID, loanID uuid.UUID, rating int) (core.LoanRecord, error)
	IsOverdue(loan core.LoanRecord) bool
	ListOpenLoans(ctx context.Context, userID uuid.UUID) ([]core.LoanRecord, error)
	LoanHistory(ctx context.Context, userID uuid.UUID) ([]core.LoanRecord, error)
	OverdueLoans(ctx context.Context) ([]core.LoanRecord, error)
	BookDetails(ctx context.Context, bookID uuid.UUID) (bookdetails.BookDetails, error)
	ListBooks(ctx context.Context) ([]core.Book, error)
}

// Handler serves the library routes.
type Handler struct {
	service LoanService
}

// NewHandler creates a Handler for the given service.
func NewHandler(service LoanService) *Handler {
	return &Handler{service: service}
}

// HealthCheck answers liveness probes.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handler) AddBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", core.ErrInvalidInput, err.Error()))
		return
	}

	book, err := h.service.AddBook(c.Request.Context(), req.Title, req.Author, req.Genre)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookResponse(book))
}

func (h *Handler) ListBooks(c *gin.Context) {
	books, err := h.service.ListBooks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := booksResponse{Books: make([]bookResponse, 0, len(books)), Count: len(books)}
	for _, book := range books {
		response.Books = append(response.Books, toBookResponse(book))
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetBook(c *gin.Context) {
	bookID, ok := pathID(c, "book")
	if !ok {
		return
	}

	details, err := h.service.BookDetails(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookDetailsResponse(details))
}

func (h *Handler) Borrow(c *gin.Context) {
	bookID, ok := pathID(c, "book")
	if !ok {
		return
	}

	loan, err := h.service.Borrow(c.Request.Context(), userIDFrom(c), bookID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toLoanResponse(loan, h.service.IsOverdue(loan)))
}

func (h *Handler) Return(c *gin.Context) {
	loanID, ok := pathID(c, "loan")
	if !ok {
		return
	}

	loan, err := h.service.Return(c.Request.Context(), userIDFrom(c), loanID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLoanResponse(loan, false))
}

func (h *Handler) RateLoan(c *gin.Context) {
	loanID, ok := pathID(c, "loan")
	if !ok {
		return
	}

	var req rateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", core.ErrInvalidInput, err.Error()))
		return
	}

	loan, err := h.service.RateLoan(c.Request.Context(), userIDFrom(c), loanID, *req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLoanResponse(loan, false))
}

func (h *Handler) ListOpenLoans(c *gin.Context) {
	loans, err := h.service.ListOpenLoans(c.Request.Context(), userIDFrom(c))
	h.respondLoans(c, loans, err)
}

func (h *Handler) LoanHistory(c *gin.Context) {
	loans, err := h.service.LoanHistory(c.Request.Context(), userIDFrom(c))
	h.respondLoans(c, loans, err)
}

func (h *Handler) OverdueLoans(c *gin.Context) {
	loans, err := h.service.OverdueLoans(c.Request.Context())
	h.respondLoans(c, loans, err)
}

func (h *Handler) respondLoans(c *gin.Context, loans []core.LoanRecord, err error) {
	if err != nil {
		respondError(c, err)
		return
	}

	response := loansResponse{Loans: make([]loanResponse, 0, len(loans)), Count: len(loans)}
	for _, loan := range loans {
		response.Loans = append(response.Loans, toLoanResponse(loan, h.service.IsOverdue(loan)))
	}

	c.JSON(http.StatusOK, response)
}

// pathID parses the :id path parameter. An ID that is not a UUID cannot exist, so it is reported as not found.
func pathID(c *gin.Context, subject string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("%s %q: %w", subject, c.Param("id"), core.ErrNotFound))
		return uuid.Nil, false
	}

	return id, true
}
