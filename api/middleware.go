package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nemopss/expense-tracker/backend/models"
)

const userIDKey = "userID"

// AuthMiddleware validates the Authorization bearer token and stores the
// token subject in the context. Ownership checks downstream use only this
// subject, never a client-supplied id.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{Success: false, Message: "Authorization header required"})
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(h.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{Success: false, Message: "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{Success: false, Message: "Invalid token"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{Success: false, Message: "Invalid token"})
			return
		}

		c.Set(userIDKey, sub)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
