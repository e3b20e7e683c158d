package middleware

import (
	"net/http"
	"strings"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKey = "claims"

type Claims struct {
	UserID int                       `json:"userId"`
	Email  string                    `json:"email"`
	Role   models.RoleBasedAuthority `json:"role"`
	jwt.RegisteredClaims
}

// CanAccess reports whether the token holder may act on the given user.
func (c *Claims) CanAccess(userID int) bool {
	return c.Role == models.RoleAdmin || c.UserID == userID
}

// AuthMiddleware verifies an HS256 bearer token signed with secret and stores
// its claims on the context. Tokens are issued elsewhere.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			RespondWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the verified claims, if the request went through
// AuthMiddleware.
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
