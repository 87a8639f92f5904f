package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bookreview/internal/entity"
	"bookreview/internal/httpx"
	"bookreview/internal/usecase"
)

type ReviewHandler struct {
	reviewRepo usecase.ReviewRepository
	bookRepo   usecase.BookRepository
}

func NewReviewHandler(reviewRepo usecase.ReviewRepository, bookRepo usecase.BookRepository) *ReviewHandler {
	return &ReviewHandler{reviewRepo: reviewRepo, bookRepo: bookRepo}
}

type createReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// updateReviewRequest uses pointers so "field absent" and "field zero" are
// distinguishable. A present rating still has to be 1-5; that is checked in
// the handler because validator's omitempty treats a pointer to zero as
// absent and would wave an explicit 0 through.
type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// reviewBookIDFromPath extracts {id} from /api/books/{id}/reviews.
func reviewBookIDFromPath(path string) (string, bool) {
	trimmed := strings.Trim(strings.TrimPrefix(path, "/api/"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 3 && parts[0] == "books" && parts[2] == "reviews" && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}

// reviewIDFromPath extracts {id} from /api/reviews/{id}.
func reviewIDFromPath(path string) (string, bool) {
	const prefix = "/api/reviews/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// @Summary Add a review to a book
// @Description Submit a rating and optional comment. One review per user per book.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param review body createReviewRequest true "Review data"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/books/{id}/reviews [post]
func (h *ReviewHandler) AddToBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := reviewBookIDFromPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid token", nil)
		return
	}

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(req); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Rating is required", details)
		return
	}

	if _, err := h.bookRepo.GetByID(r.Context(), bookID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		}
		return
	}

	review := &entity.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.reviewRepo.Create(r.Context(), review); err != nil {
		switch {
		case errors.Is(err, usecase.ErrConflict):
			JSONError(w, http.StatusConflict, "ALREADY_EXISTS", "You have already reviewed this book", nil)
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		}
		return
	}

	JSONSuccessCreated(w, review)
}

// @Summary Update a review
// @Description Partially update rating and/or comment. Owner only.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param review body updateReviewRequest true "Fields to update"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/reviews/{id} [put]
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := reviewIDFromPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid token", nil)
		return
	}

	var req updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be between 1 and 5", []ErrorDetail{
			{Field: "rating", Message: "rating must be between 1 and 5"},
		})
		return
	}

	review, err := h.reviewRepo.GetByID(r.Context(), reviewID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Review not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		}
		return
	}
	if review.UserID != userID {
		JSONError(w, http.StatusForbidden, "FORBIDDEN", "You can only update your own review", nil)
		return
	}

	updated, err := h.reviewRepo.Update(r.Context(), reviewID, usecase.ReviewUpdate{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Review not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		}
		return
	}

	JSONSuccess(w, updated, nil)
}

// @Summary Delete a review
// @Description Permanently remove a review. Owner only.
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := reviewIDFromPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid token", nil)
		return
	}

	review, err := h.reviewRepo.GetByID(r.Context(), reviewID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Review not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		}
		return
	}
	if review.UserID != userID {
		JSONError(w, http.StatusForbidden, "FORBIDDEN", "You can only delete your own review", nil)
		return
	}

	if err := h.reviewRepo.Delete(r.Context(), reviewID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Review not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error", nil)
		}
		return
	}

	JSONSuccess(w, map[string]interface{}{"message": "Review deleted"}, nil)
}
