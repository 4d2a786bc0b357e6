// Package post contains the blog post endpoints
package post

import (
	"avekl/folio-api/internal"
	"avekl/folio-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// List returns all posts, newest first, without their bodies.
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var posts []model.Post

	err := d.DB.
		Select("id", "author_id", "title", "slug", "created_at", "updated_at").
		Order("created_at DESC").
		Find(&posts).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list posts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Fetch returns one post by its slug, body included.
func Fetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var post model.Post

	err := d.DB.Where("slug = ?", c.Param("slug")).First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Post not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, post)
}
