package post

import (
	"avekl/folio-api/internal"
	"avekl/folio-api/internal/model"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

type createBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Create stores a new post owned by the logged-in user. The slug is
// derived from the title, duplicates are rejected by the unique index.
func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data createBody
	if err := c.ShouldBind(&data); err != nil || strings.TrimSpace(data.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Title field can't be empty",
			"requestID": requestID,
		})
		return
	}

	postID, err := gonanoid.New(12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate post ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	post := model.Post{
		ID:       postID,
		AuthorID: userID,
		Title:    data.Title,
		Slug:     makeSlug(data.Title),
		Body:     data.Body,
	}

	if err := d.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "A post with this title already exists",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, post)
}

// Delete removes a post the logged-in user owns.
func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	r := d.DB.
		Where("id = ? AND author_id = ?", c.Param("id"), userID).
		Delete(model.Post{})
	if r.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete post", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if r.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Post not found",
			"requestID": requestID,
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func makeSlug(title string) string {
	s := slugCleaner.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
