package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"arka.dev/learnhub/internal/config"
	"arka.dev/learnhub/internal/entity"
	service "arka.dev/learnhub/internal/modules/user/service"
	"arka.dev/learnhub/pkg/apperror"
	"arka.dev/learnhub/pkg/response"
)

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(cfg.JWTSecret)}
}

// RequireAuth verifies the bearer token and exposes the account identity to
// downstream handlers via user_id, email and role.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			response.Error(c, nil, apperror.Unauthorized("authorization required"))
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &service.Claims{}, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			response.Error(c, nil, apperror.Unauthorized("invalid or expired token"))
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*service.Claims)
		if !ok {
			response.Error(c, nil, apperror.Unauthorized("invalid token claims"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// RequireRole gates a route group to one account role. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, exists := c.Get("role")
		if !exists {
			response.Error(c, nil, apperror.Unauthorized("authentication required"))
			c.Abort()
			return
		}

		if current.(string) != string(role) {
			response.Error(c, nil, apperror.Forbidden(fmt.Sprintf("%s access required", role)))
			c.Abort()
			return
		}

		c.Next()
	}
}
