package middleware

import (
	"errors"
	"net/http"
	"strings"

	"parkly/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// ClientIDKey is the context key under which the authenticated client id is stored.
const ClientIDKey = "clientID"

// IdentityMiddleware extracts the client id from a bearer token issued
// by the external identity provider. The subject claim is trusted as-is;
// this service performs no account lookups of its own.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		clientID, err := subjectFromToken(tokenString)
		if err != nil || clientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}

// subjectFromToken validates the token signature and returns its subject.
func subjectFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}
