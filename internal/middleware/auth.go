package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"suppliers-be/internal/entities"
	"suppliers-be/internal/models"
	"suppliers-be/internal/service"
)

const (
	// AccessTokenCookie holds "Bearer <jwt>" after a successful login.
	AccessTokenCookie = "access_token"

	currentUserKey = "current_user"
	bearerPrefix   = "Bearer "
)

// AuthMiddleware resolves the request's access token to an active user and
// stores it in the context. The token is taken from the Authorization header
// first, then from the access_token cookie. Every failure aborts with the
// same 401 response.
func AuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok && user != nil
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return stripBearer(header)
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return stripBearer(cookie)
	}

	return ""
}

// stripBearer returns the credentials of a "Bearer <token>" value, matching
// the scheme case-insensitively. Any other scheme yields "".
func stripBearer(value string) string {
	value = strings.TrimSpace(value)
	if len(value) < len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(value[len(bearerPrefix):])
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error: "Could not validate credentials",
	})
}
