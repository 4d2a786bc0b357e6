// Package auth contains the registration, login, logout, token
// refresh and email verification endpoints
package auth

import (
	"avekl/folio-api/internal"
	"avekl/folio-api/internal/model"
	"avekl/folio-api/pkg/security"
	"avekl/folio-api/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Register creates a new account from a multipart form. Email,
// password, display name and the avatar image are all required and
// registering never logs the user in, login is its own call.
func Register(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	email := c.PostForm("email")
	password := c.PostForm("password")
	name := c.PostForm("name")

	if err := validators.EmailValidator(email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.NameValidator(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     validators.ErrNoImage.Error(),
			"requestID": requestID,
		})
		return
	}

	status, img, err := validators.ImageValidator(fh)
	if err != nil {
		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to validate avatar image", zap.Error(err), zap.String("requestID", requestID))

			c.JSON(status, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})
			return
		}

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer img.Close()

	var found bool

	r := d.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		Find(&found)
	if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if found {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "This email is already registered. Please login or use a different email",
			"requestID": requestID,
		})
		return
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	avatarURL, err := d.Avatars.Do(img, fh.Header.Get("Content-Type"), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to upload avatar",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.DB.Create(&model.User{
		ID:           userID,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  name,
		AvatarURL:    avatarURL,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Kick off email verification right away. The mail going missing
	// isn't fatal, a new code can be requested at any point
	if err := d.Verif.Request(c.Request.Context(), email); err != nil {
		zap.L().Warn("Failed to send verification code", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusCreated, gin.H{
		"userID": userID,
	})
}
