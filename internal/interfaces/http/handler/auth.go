package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imamecatronica/backend/internal/domain/identity"
	"github.com/imamecatronica/backend/internal/infrastructure/auth"
	"github.com/imamecatronica/backend/internal/infrastructure/logger"
	"github.com/imamecatronica/backend/internal/interfaces/http/dto"
	"github.com/imamecatronica/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	Issue(user *identity.User) (*auth.Token, error)
}

// AuthHandler handles sign-in and the current session
type AuthHandler struct {
	BaseHandler
	credentials  auth.CredentialStore
	tokens       TokenIssuer
	capabilities identity.CapabilityTable
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(credentials auth.CredentialStore, tokens TokenIssuer, capabilities identity.CapabilityTable) *AuthHandler {
	return &AuthHandler{
		credentials:  credentials,
		tokens:       tokens,
		capabilities: capabilities,
	}
}

// Login godoc
// @Summary      Operator sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=dto.LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.credentials.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			logger.L(ctx).Warn("Sign-in rejected",
				zap.String("username", req.Username),
				zap.String("client_ip", c.ClientIP()),
			)
			h.Unauthorized(c, dto.ErrCodeInvalidCredentials, "Invalid username or password")
			return
		}
		h.HandleError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.L(ctx).Info("Operator signed in",
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()),
	)

	h.Success(c, dto.LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        user.Role.String(),
		Permissions: h.capabilities.PermissionsFor(user.Role).Codes(),
	})
}

// SessionResponse describes the authenticated caller
type SessionResponse struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Me godoc
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	role := claims.RoleOf()
	h.Success(c, SessionResponse{
		Username:    claims.Username,
		Role:        role.String(),
		Permissions: h.capabilities.PermissionsFor(role).Codes(),
	})
}
