package utilities

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractBearerToken returns the token from an "Authorization: Bearer <token>"
// header. Headers with a different scheme or an empty token are rejected.
func ExtractBearerToken(c *gin.Context) (string, error) {

	const BearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if !strings.HasPrefix(authHeader, BearerSchema) {
		return "", fmt.Errorf("Invalid authorization header")
	}

	token := authHeader[len(BearerSchema):]
	if token == "" {
		return "", fmt.Errorf("Invalid authorization header")
	}

	return token, nil
}
