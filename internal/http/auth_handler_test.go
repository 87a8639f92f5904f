package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview/internal/auth"
	"bookreview/internal/entity"
	"bookreview/internal/store/mocks"
	"bookreview/internal/testutil"
	"bookreview/internal/usecase"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMock      func(repo *mocks.MockUserRepository)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{"email": "new@example.com", "username": "newuser", "password": "Passw0rd1"},
			setupMock: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "validation error - bad email",
			body:           map[string]interface{}{"email": "not-an-email", "username": "newuser", "password": "Passw0rd1"},
			setupMock:      func(repo *mocks.MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "validation error - weak password",
			body:           map[string]interface{}{"email": "new@example.com", "username": "newuser", "password": "short"},
			setupMock:      func(repo *mocks.MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "conflict - email taken",
			body: map[string]interface{}{"email": "taken@example.com", "username": "newuser", "password": "Passw0rd1"},
			setupMock: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(usecase.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			userRepo := mocks.NewMockUserRepository(ctrl)
			tt.setupMock(userRepo)
			handler := NewAuthHandler(userRepo, testSecret)

			w := httptest.NewRecorder()
			r := testutil.NewRequest(http.MethodPost, "/api/auth/register", tt.body)

			handler.Register(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	hashed, err := auth.HashPassword("Passw0rd1")
	require.NoError(t, err)

	storedUser := entity.User{
		ID:       testutil.TestUser.ID,
		Email:    "test@example.com",
		Username: "testuser",
		Password: hashed,
		Role:     "USER",
	}

	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMock      func(repo *mocks.MockUserRepository)
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]interface{})
	}{
		{
			name: "success issues a parseable token",
			body: map[string]interface{}{"email": "test@example.com", "password": "Passw0rd1"},
			setupMock: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().
					GetByEmail(gomock.Any(), "test@example.com").
					Return(storedUser, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				token, ok := data["token"].(string)
				require.True(t, ok)
				claims, err := auth.ParseToken(testSecret, token)
				require.NoError(t, err)
				assert.Equal(t, storedUser.ID, claims.Sub)
			},
		},
		{
			name: "wrong password",
			body: map[string]interface{}{"email": "test@example.com", "password": "WrongPass1"},
			setupMock: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().
					GetByEmail(gomock.Any(), "test@example.com").
					Return(storedUser, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			body: map[string]interface{}{"email": "nobody@example.com", "password": "Passw0rd1"},
			setupMock: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().
					GetByEmail(gomock.Any(), "nobody@example.com").
					Return(entity.User{}, usecase.ErrNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "validation error - missing password",
			body:           map[string]interface{}{"email": "test@example.com"},
			setupMock:      func(repo *mocks.MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			userRepo := mocks.NewMockUserRepository(ctrl)
			tt.setupMock(userRepo)
			handler := NewAuthHandler(userRepo, testSecret)

			w := httptest.NewRecorder()
			r := testutil.NewRequest(http.MethodPost, "/api/auth/login", tt.body)

			handler.Login(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, testutil.RecordHTTPResponse(w).Body)
			}
		})
	}
}
