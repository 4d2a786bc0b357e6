package auth

import (
	"avekl/folio-api/internal"
	"avekl/folio-api/internal/store"
	"avekl/folio-api/pkg/security"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges a live refresh token for a brand new token pair.
// The old token is revoked in the same request, so every exchange
// rotates the server-side entry and a stolen token can only be
// replayed until its legitimate owner uses it.
func Refresh(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data refreshBody
	if err := c.ShouldBind(&data); err != nil || data.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No refresh token provided",
			"requestID": requestID,
		})
		return
	}

	// Signature and expiry first, then the store. A token that parses
	// but has no store entry was revoked and stays dead.
	userID, err := d.Tokens.Parse(data.RefreshToken, security.TokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "token_invalid",
			"requestID": requestID,
		})
		return
	}

	storedID, err := d.Refresh.Resolve(c.Request.Context(), data.RefreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "token_revoked",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if storedID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "token_invalid",
			"requestID": requestID,
		})
		return
	}

	accessToken, err := d.Tokens.Access(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate access token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	refreshToken, err := d.Tokens.Refresh(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Refresh.Save(c.Request.Context(), refreshToken, userID, security.RefreshTTL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to persist refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Refresh.Revoke(c.Request.Context(), data.RefreshToken); err != nil {
		zap.L().Warn("Failed to revoke rotated refresh token", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}
