package middleware

import (
	"DocVault-backend/internal/auth"
	"DocVault-backend/internal/utilities"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RevokedTokenCheck rejects access tokens that were logged out before their
// expiry. Must run after RequireAuth, which stashes the validated claims.
func RevokedTokenCheck(store auth.RevocationStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := auth.ExtractClaims(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		revoked, err := store.IsRevoked(claims.ID)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to validate token: %s", err.Error()),
			})
			return
		}

		if revoked {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token has been revoked",
			})
			return
		}

		ctx.Next()
	}
}
