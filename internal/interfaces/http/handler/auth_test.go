package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imamecatronica/backend/internal/domain/identity"
	"github.com/imamecatronica/backend/internal/infrastructure/auth"
	"github.com/imamecatronica/backend/internal/infrastructure/config"
	"github.com/imamecatronica/backend/internal/interfaces/http/dto"
	"github.com/imamecatronica/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Authenticate(ctx context.Context, username, password string) (*identity.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

type failingIssuer struct{}

func (failingIssuer) Issue(*identity.User) (*auth.Token, error) {
	return nil, errors.New("signing key unavailable")
}

func newTokenService() *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "ima-test",
	})
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newAuthRouter(h *AuthHandler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.POST("/auth/login", h.Login)
	return router
}

func TestAuthHandler_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	store := auth.NewStaticCredentialStore(&identity.User{
		Username: "mlopez", DisplayName: "María López", Role: identity.RoleSales, PasswordHash: string(hash),
	})
	tokens := newTokenService()
	router := newAuthRouter(NewAuthHandler(store, tokens, identity.DefaultCapabilities()))

	t.Run("valid credentials", func(t *testing.T) {
		w := postLogin(router, `{"username":"MLopez","password":"secreto123"}`)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "Bearer", data["token_type"])
		assert.Equal(t, "mlopez", data["username"])
		assert.Equal(t, "SALES", data["role"])
		assert.Equal(t, []any{"pending_income:read"}, data["permissions"])

		claims, err := tokens.Validate(data["access_token"].(string))
		require.NoError(t, err)
		assert.Equal(t, identity.RoleSales, claims.RoleOf())
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postLogin(router, `{"username":"mlopez","password":"nope-nope"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, decodeResponse(t, w).Error.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		w := postLogin(router, `{"username":"mlopez"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	})
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	t.Run("credential store failure", func(t *testing.T) {
		store := new(MockCredentialStore)
		store.On("Authenticate", mock.Anything, "mlopez", "secreto123").Return(nil, errors.New("directory offline"))

		w := postLogin(newAuthRouter(NewAuthHandler(store, newTokenService(), identity.DefaultCapabilities())),
			`{"username":"mlopez","password":"secreto123"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("token signing failure", func(t *testing.T) {
		store := new(MockCredentialStore)
		store.On("Authenticate", mock.Anything, "mlopez", "secreto123").
			Return(&identity.User{Username: "mlopez", Role: identity.RoleAdmin}, nil)

		w := postLogin(newAuthRouter(NewAuthHandler(store, failingIssuer{}, identity.DefaultCapabilities())),
			`{"username":"mlopez","password":"secreto123"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeInternal, decodeResponse(t, w).Error.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	tokens := newTokenService()
	h := NewAuthHandler(new(MockCredentialStore), tokens, identity.DefaultCapabilities())

	router := gin.New()
	router.GET("/auth/me", middleware.BearerAuth(tokens, zap.NewNop()), h.Me)

	token, err := tokens.Issue(&identity.User{Username: "acoord", Role: identity.RoleCoordinator})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "acoord", data["username"])
	assert.Equal(t, "COORDINATOR", data["role"])
	assert.Equal(t, []any{"client:credit_read", "pending_income:export", "pending_income:read"}, data["permissions"])
}
