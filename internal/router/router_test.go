package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"accountsvc/internal/auth"
	"accountsvc/internal/config"
	"accountsvc/internal/handler"
	"accountsvc/internal/model"
	"accountsvc/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockUserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, authHeader string, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, authHeader, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, authHeader string, id uuid.UUID, patch service.UserPatch) (*model.User, error) {
	args := m.Called(ctx, authHeader, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, authHeader string, id uuid.UUID) error {
	args := m.Called(ctx, authHeader, id)
	return args.Error(0)
}

func newTestRouter(mockSvc *MockUserService) (*echo.Echo, *auth.JWTService) {
	e := echo.New()
	cfg := &config.Config{
		JWTSecret:          "access-secret",
		RefreshTokenSecret: "refresh-secret",
	}
	Register(e, cfg, handler.NewUserHandler(mockSvc))
	return e, auth.NewJWTService(cfg.JWTSecret, cfg.RefreshTokenSecret)
}

func TestSecuredRoutes_CoarseGate(t *testing.T) {
	userID := uuid.New()
	stored := &model.User{ID: userID, Email: "a@x.com"}

	jwtService := auth.NewJWTService("access-secret", "refresh-secret")
	token, err := jwtService.GenerateAccessToken("a@x.com")
	assert.NoError(t, err)

	tests := []struct {
		name         string
		authHeader   string
		expectedCode int
		reachesSvc   bool
	}{
		{
			name:         "Bearer-prefixed token passes the gate",
			authHeader:   "Bearer " + token,
			expectedCode: http.StatusOK,
			reachesSvc:   true,
		},
		{
			// the gate tolerates a bare token, same as the access validator
			name:         "bare token passes the gate",
			authHeader:   token,
			expectedCode: http.StatusOK,
			reachesSvc:   true,
		},
		{
			name:         "missing header is rejected at the gate",
			authHeader:   "",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "garbage token is rejected at the gate",
			authHeader:   "Bearer not-a-jwt",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "empty bearer value is rejected at the gate",
			authHeader:   "Bearer ",
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockUserService)
			if tt.reachesSvc {
				mockSvc.On("Get", mock.Anything, tt.authHeader, userID).Return(stored, nil)
			}
			e, _ := newTestRouter(mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/api/users/"+userID.String(), nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.reachesSvc {
				mockSvc.AssertExpectations(t)
			} else {
				mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestSecuredRoutes_RejectRefreshSecretToken(t *testing.T) {
	userID := uuid.New()

	other := auth.NewJWTService("refresh-secret", "refresh-secret")
	token, err := other.GenerateAccessToken("a@x.com")
	assert.NoError(t, err)

	mockSvc := new(MockUserService)
	e, _ := newTestRouter(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+userID.String(), nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublicRoutes_BypassTheGate(t *testing.T) {
	mockSvc := new(MockUserService)
	e, _ := newTestRouter(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// no Authorization header required; the handler's own validation answers
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
