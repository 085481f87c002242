package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prismhq/prism-api/internal/auth"
)

// Keep this small interface so tests can fake it easily.
type CredentialVerifier interface {
	Verify(ctx context.Context, header string) (auth.Identity, error)
}

type AuthMiddleware struct {
	verifier CredentialVerifier
}

func NewAuthMiddleware(verifier CredentialVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth verifies the Basic credentials on every request before the
// handler runs. The three rejection messages are deliberately distinct
// for missing vs malformed headers, and deliberately shared between
// unknown email and wrong password.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.verifier.Verify(c.Request.Context(), c.GetHeader("Authorization"))

		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken),
				errors.Is(err, auth.ErrInvalidCredentials),
				errors.Is(err, auth.ErrBadEmailOrPassword):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{
						"code":    "unauthenticated",
						"message": err.Error(),
					},
				})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"code":    "internal_error",
						"message": "Could not verify credentials",
					},
				})
			}
			return
		}

		// Stash useful bits of identity on the context
		c.Set(CtxUserID, identity.UserID)
		c.Set(CtxEmail, identity.Email)
		c.Set(CtxRole, identity.Role)

		c.Next()
	}
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
