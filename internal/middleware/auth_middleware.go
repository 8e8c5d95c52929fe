package middleware

import (
	"net/http"
	"strings"

	"csv_manager_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TokenValidator is what AuthMiddleware needs from the auth service.
type TokenValidator interface {
	Enabled() bool
	ValidateToken(token string) (*utils.Claims, error)
}

// AuthMiddleware creates a Gin middleware for JWT authentication. When the
// validator reports authentication as disabled every request passes.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !validator.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			utils.LogWarn("Rejected operator token", map[string]interface{}{"client_ip": c.ClientIP(), "reason": err.Error()})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}
