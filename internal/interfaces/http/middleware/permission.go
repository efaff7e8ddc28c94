package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imamecatronica/backend/internal/domain/identity"
	"github.com/imamecatronica/backend/internal/infrastructure/logger"
	"github.com/imamecatronica/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PermissionsKey holds the resolved permission set of the caller
const PermissionsKey = "auth_permissions"

// Authorizer resolves the caller's role through a capability table
type Authorizer struct {
	table  identity.CapabilityTable
	logger *zap.Logger
}

// NewAuthorizer creates an authorizer over table
func NewAuthorizer(table identity.CapabilityTable, log *zap.Logger) *Authorizer {
	return &Authorizer{table: table, logger: log}
}

// RequireAny lets the request through when the caller's role grants at
// least one of perms. It must run after BearerAuth.
func (a *Authorizer) RequireAny(perms ...identity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		granted := a.table.PermissionsFor(claims.RoleOf())
		if !granted.HasAny(perms...) {
			logger.Enrich(c.Request.Context(), a.logger).Warn("Permission denied",
				zap.String("username", claims.Username),
				zap.String("role", claims.Role),
				zap.Strings("required_any", permissionCodes(perms)),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "You do not have permission to access this resource", GetRequestID(c)))
			return
		}

		c.Set(PermissionsKey, granted)
		c.Next()
	}
}

// Permissions returns the permissions of a role, for sign-in responses
func (a *Authorizer) Permissions(role identity.Role) identity.PermissionSet {
	return a.table.PermissionsFor(role)
}

// GetPermissions returns the permission set resolved by RequireAny
func GetPermissions(c *gin.Context) (identity.PermissionSet, bool) {
	if v, ok := c.Get(PermissionsKey); ok {
		set, ok := v.(identity.PermissionSet)
		return set, ok
	}
	return identity.PermissionSet{}, false
}

func permissionCodes(perms []identity.Permission) []string {
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = string(p)
	}
	return codes
}
