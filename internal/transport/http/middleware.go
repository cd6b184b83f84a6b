package http

import (
	"net/http"
	"strings"

	"campus-market/internal/service"
	"campus-market/internal/token"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the Bearer access token and stores the verified user
// id on the request context for the services to consume.
func AuthRequired(verifier *token.HSProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, NewUnauthorizedError("missing Authorization header"))
			return
		}
		raw, ok := ExtractBearerToken(authz)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, NewUnauthorizedError("invalid Authorization header"))
			return
		}

		userID, err := verifier.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, NewUnauthorizedError("invalid token"))
			return
		}

		c.Request = c.Request.WithContext(service.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func ExtractBearerToken(authz string) (string, bool) {
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return "", false
	}
	return raw, true
}
