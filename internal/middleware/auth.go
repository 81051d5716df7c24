package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/nadiaputeri/campuscore/internal/auth"
	"github.com/nadiaputeri/campuscore/pkg/errors"
	"github.com/nadiaputeri/campuscore/pkg/response"
)

const (
	CtxClaimsKey   = "authClaims"
	CtxUserIDKey   = "userID"
	CtxRoleKey     = "callerRole"
	CtxSchoolIDKey = "schoolID"
)

// Auth enforces JWT authentication and exposes the caller's identity, role
// and tenant school to downstream handlers.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)
		if claims.SchoolID != "" {
			c.Set(CtxSchoolIDKey, claims.SchoolID)
		}

		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated caller holds one of
// the listed roles. It must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Error(c, errors.ErrForbidden)
		c.Abort()
	}
}
