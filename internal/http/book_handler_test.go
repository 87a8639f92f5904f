package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview/internal/entity"
	"bookreview/internal/store/mocks"
	"bookreview/internal/testutil"
	"bookreview/internal/usecase"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestBookHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMock      func(repo *mocks.MockBookRepository)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{"title": "The Hobbit", "author": "J.R.R. Tolkien", "genre": "Fantasy"},
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "validation error - missing title",
			body:           map[string]interface{}{"author": "J.R.R. Tolkien"},
			setupMock:      func(repo *mocks.MockBookRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "validation error - missing author",
			body:           map[string]interface{}{"title": "The Hobbit"},
			setupMock:      func(repo *mocks.MockBookRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "validation error - both missing",
			body:           map[string]interface{}{"genre": "Fantasy"},
			setupMock:      func(repo *mocks.MockBookRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "server error",
			body: map[string]interface{}{"title": "The Hobbit", "author": "J.R.R. Tolkien"},
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			bookRepo := mocks.NewMockBookRepository(ctrl)
			reviewRepo := mocks.NewMockReviewRepository(ctrl)
			tt.setupMock(bookRepo)
			handler := NewBookHandler(bookRepo, reviewRepo)

			w := httptest.NewRecorder()
			r := testutil.NewRequest(http.MethodPost, "/api/books", tt.body)

			handler.Create(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(repo *mocks.MockBookRepository)
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:        "defaults to page 1 limit 10",
			queryParams: "",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					List(gomock.Any(), usecase.ListParams{Limit: 10, Offset: 0}).
					Return([]entity.Book{testutil.TestBook}, 1, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "page 2 skips the first ten",
			queryParams: "?page=2&limit=10",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					List(gomock.Any(), usecase.ListParams{Limit: 10, Offset: 10}).
					Return([]entity.Book{}, 25, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				meta := body["meta"].(map[string]interface{})
				assert.Equal(t, float64(2), meta["page"])
				assert.Equal(t, float64(25), meta["total"])
				assert.Equal(t, float64(3), meta["total_pages"])
			},
		},
		{
			name:        "author and genre filters passed through",
			queryParams: "?author=J.R.R.+Tolkien&genre=Fantasy",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					List(gomock.Any(), usecase.ListParams{Author: "J.R.R. Tolkien", Genre: "Fantasy", Limit: 10, Offset: 0}).
					Return([]entity.Book{testutil.TestBook}, 1, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "oversized limit falls back to default",
			queryParams: "?limit=5000",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					List(gomock.Any(), usecase.ListParams{Limit: 10, Offset: 0}).
					Return([]entity.Book{}, 0, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "server error",
			queryParams: "",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					List(gomock.Any(), gomock.Any()).
					Return(nil, 0, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			bookRepo := mocks.NewMockBookRepository(ctrl)
			reviewRepo := mocks.NewMockReviewRepository(ctrl)
			tt.setupMock(bookRepo)
			handler := NewBookHandler(bookRepo, reviewRepo)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/books"+tt.queryParams, nil)

			handler.List(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, testutil.RecordHTTPResponse(w).Body)
			}
		})
	}
}

func TestBookHandler_GetByID(t *testing.T) {
	bookID := testutil.TestBook.ID
	avg := 4.0

	tests := []struct {
		name           string
		path           string
		setupMock      func(bookRepo *mocks.MockBookRepository, reviewRepo *mocks.MockReviewRepository)
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "success with reviews",
			path: "/api/books/" + bookID,
			setupMock: func(bookRepo *mocks.MockBookRepository, reviewRepo *mocks.MockReviewRepository) {
				bookRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(testutil.TestBook, nil)
				reviewRepo.EXPECT().
					ListByBook(gomock.Any(), bookID, 5, 0).
					Return([]entity.Review{testutil.TestReview}, 3, nil)
				reviewRepo.EXPECT().AverageRating(gomock.Any(), bookID).Return(&avg, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				assert.Equal(t, 4.0, data["average_rating"])
				assert.Equal(t, float64(3), data["total_reviews"])
			},
		},
		{
			name: "average is over all reviews regardless of page",
			path: "/api/books/" + bookID + "?page=2&limit=1",
			setupMock: func(bookRepo *mocks.MockBookRepository, reviewRepo *mocks.MockReviewRepository) {
				bookRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(testutil.TestBook, nil)
				reviewRepo.EXPECT().
					ListByBook(gomock.Any(), bookID, 1, 1).
					Return([]entity.Review{testutil.TestReview}, 3, nil)
				reviewRepo.EXPECT().AverageRating(gomock.Any(), bookID).Return(&avg, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				assert.Equal(t, 4.0, data["average_rating"])
				meta := body["meta"].(map[string]interface{})
				assert.Equal(t, float64(3), meta["total_pages"])
			},
		},
		{
			name: "zero reviews yields null average",
			path: "/api/books/" + bookID,
			setupMock: func(bookRepo *mocks.MockBookRepository, reviewRepo *mocks.MockReviewRepository) {
				bookRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(testutil.TestBook, nil)
				reviewRepo.EXPECT().
					ListByBook(gomock.Any(), bookID, 5, 0).
					Return([]entity.Review{}, 0, nil)
				reviewRepo.EXPECT().AverageRating(gomock.Any(), bookID).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				assert.Nil(t, data["average_rating"])
				assert.Equal(t, float64(0), data["total_reviews"])
			},
		},
		{
			name: "book not found",
			path: "/api/books/missing-id",
			setupMock: func(bookRepo *mocks.MockBookRepository, reviewRepo *mocks.MockReviewRepository) {
				bookRepo.EXPECT().GetByID(gomock.Any(), "missing-id").Return(entity.Book{}, usecase.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "server error",
			path: "/api/books/" + bookID,
			setupMock: func(bookRepo *mocks.MockBookRepository, reviewRepo *mocks.MockReviewRepository) {
				bookRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(entity.Book{}, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			bookRepo := mocks.NewMockBookRepository(ctrl)
			reviewRepo := mocks.NewMockReviewRepository(ctrl)
			tt.setupMock(bookRepo, reviewRepo)
			handler := NewBookHandler(bookRepo, reviewRepo)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)

			handler.GetByID(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, testutil.RecordHTTPResponse(w).Body)
			}
		})
	}
}

func TestBookHandler_Search(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(repo *mocks.MockBookRepository)
		expectedStatus int
	}{
		{
			name:        "matches title and author case-insensitively",
			queryParams: "?q=tolkien",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					Search(gomock.Any(), "tolkien").
					Return([]entity.Book{
						{Title: "The Hobbit", Author: "J.R.R. Tolkien"},
						{Title: "The Tolkien Companion", Author: "J.E.A. Tyler"},
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing q",
			queryParams:    "",
			setupMock:      func(repo *mocks.MockBookRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "server error",
			queryParams: "?q=tolkien",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					Search(gomock.Any(), "tolkien").
					Return(nil, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			bookRepo := mocks.NewMockBookRepository(ctrl)
			reviewRepo := mocks.NewMockReviewRepository(ctrl)
			tt.setupMock(bookRepo)
			handler := NewBookHandler(bookRepo, reviewRepo)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/books/search"+tt.queryParams, nil)

			handler.Search(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
