package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookreview/internal/entity"
	"bookreview/internal/usecase"
)

const (
	defaultListLimit   = 10
	defaultReviewLimit = 5
	maxLimit           = 100
)

type BookHandler struct {
	bookRepo   usecase.BookRepository
	reviewRepo usecase.ReviewRepository
}

func NewBookHandler(bookRepo usecase.BookRepository, reviewRepo usecase.ReviewRepository) *BookHandler {
	return &BookHandler{bookRepo: bookRepo, reviewRepo: reviewRepo}
}

type createBookRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	Author      string `json:"author" validate:"required,max=255"`
	Genre       string `json:"genre" validate:"max=100"`
	Description string `json:"description"`
}

// @Summary Add a book
// @Description Create a new catalog entry
// @Tags books
// @Accept json
// @Produce json
// @Param book body createBookRequest true "Book data"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/books [post]
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)

	if details := ValidateStruct(req); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Title and author are required", details)
		return
	}

	book := &entity.Book{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: req.Description,
	}
	if err := h.bookRepo.Create(r.Context(), book); err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		return
	}

	JSONSuccessCreated(w, book)
}

// @Summary List books
// @Description Get all books with filters and pagination
// @Tags books
// @Produce json
// @Param author query string false "Filter by exact author"
// @Param genre query string false "Filter by exact genre"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} SuccessResponse
// @Router /api/books [get]
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageAndLimit(r, defaultListLimit)

	params := usecase.ListParams{
		Author: r.URL.Query().Get("author"),
		Genre:  r.URL.Query().Get("genre"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	books, total, err := h.bookRepo.List(r.Context(), params)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		return
	}
	if books == nil {
		books = []entity.Book{}
	}

	JSONSuccess(w, books, map[string]interface{}{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": (total + limit - 1) / limit,
	})
}

// @Summary Get book detail
// @Description Get a book with its reviews and aggregate rating
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Param page query int false "Review page number" default(1)
// @Param limit query int false "Reviews per page" default(5)
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/books/{id} [get]
func (h *BookHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDFromPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	page, limit := pageAndLimit(r, defaultReviewLimit)

	book, err := h.bookRepo.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		}
		return
	}

	reviews, totalReviews, err := h.reviewRepo.ListByBook(r.Context(), id, limit, (page-1)*limit)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		return
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}

	// Average over ALL reviews for the book, not just the requested page.
	averageRating, err := h.reviewRepo.AverageRating(r.Context(), id)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		return
	}

	JSONSuccess(w, map[string]interface{}{
		"book":           book,
		"average_rating": averageRating,
		"reviews":        reviews,
		"total_reviews":  totalReviews,
	}, map[string]interface{}{
		"page":        page,
		"limit":       limit,
		"total_pages": (totalReviews + limit - 1) / limit,
	})
}

// @Summary Search books
// @Description Case-insensitive substring search over title and author
// @Tags books
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/books/search [get]
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter q is required", nil)
		return
	}

	books, err := h.bookRepo.Search(r.Context(), q)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		return
	}
	if books == nil {
		books = []entity.Book{}
	}

	JSONSuccess(w, books, nil)
}

// pageAndLimit reads pagination query params with a handler-specific
// default page size. Limit is capped so a caller cannot request the world.
func pageAndLimit(r *http.Request, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}

// bookIDFromPath extracts {id} from /api/books/{id}.
func bookIDFromPath(path string) (string, bool) {
	const prefix = "/api/books/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
