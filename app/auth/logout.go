package auth

import (
	"avekl/folio-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type logoutBody struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes a refresh token. Tokens that are already gone count
// as revoked, calling this twice with the same token succeeds twice.
func Logout(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data logoutBody
	if err := c.ShouldBind(&data); err != nil || data.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No refresh token provided",
			"requestID": requestID,
		})
		return
	}

	if err := d.Refresh.Revoke(c.Request.Context(), data.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to revoke refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loggedOut": true,
	})
}
