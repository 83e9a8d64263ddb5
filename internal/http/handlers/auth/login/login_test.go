package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/services"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, phone, rawPassword string) (*models.User, string, error) {
	args := m.Called(ctx, phone, rawPassword)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validReq := models.DummyLogin{
		Phone:    "01700000000",
		Password: "secret123",
	}
	user := &models.User{
		ID:          "user-1",
		FullName:    "Test User",
		Phone:       "01700000000",
		Email:       "test@example.com",
		RefCode:     "123456",
		Role:        models.RoleUser,
		AccountType: models.AccountFree,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешный вход",
			requestBody: validReq,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "01700000000", "secret123").
					Return(user, "token123", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"status":"OK","data":{"token":"token123","user":{
				"id":"user-1","full_name":"Test User","phone":"01700000000",
				"email":"test@example.com","ref_code":"123456","role":"user",
				"account_type":"free","balance_free":0,"total_withdraw":0,
				"withdraw_count":0,"is_blocked":false,"joining_bonus_claimed":false,
				"created_at":"0001-01-01T00:00:00Z"}}}`,
		},
		{
			name:           "невалидные данные",
			requestBody:    models.DummyLogin{},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Phone is a required field, field Password is a required field"}`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:        "неверные учетные данные",
			requestBody: validReq,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "01700000000", "secret123").
					Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"invalid credentials"}`,
		},
		{
			name:        "аккаунт заблокирован",
			requestBody: validReq,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "01700000000", "secret123").
					Return(nil, "", services.ErrBlocked)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"account is blocked"}`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: validReq,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "01700000000", "secret123").
					Return(nil, "", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to login"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
