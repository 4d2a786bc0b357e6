// Package stats contains the visitor counter endpoints
package stats

import (
	"avekl/folio-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Visit records one page visit and returns the new total.
func Visit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	n, err := d.Visitors.Hit(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to increment visitor counter", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"visitors": n,
	})
}

// Visitors returns the current visit count.
func Visitors(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	n, err := d.Visitors.Total(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read visitor counter", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"visitors": n,
	})
}
