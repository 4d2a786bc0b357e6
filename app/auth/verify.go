package auth

import (
	"avekl/folio-api/internal"
	"avekl/folio-api/internal/model"
	"avekl/folio-api/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verifyRequestBody struct {
	Email string `json:"email"`
}

type verifyConfirmBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyRequest issues a fresh verification code for an address and
// mails it out. Requesting again simply replaces the previous code.
func VerifyRequest(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyRequestBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := d.Verif.Request(c.Request.Context(), data.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue verification code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sent": true,
	})
}

// VerifyConfirm burns a code. On a match the account is flagged as
// verified. A wrong, expired or never-requested code all get the same
// answer, but a broken cache is a 500, not a rejected code.
func VerifyConfirm(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyConfirmBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Email == "" || data.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and code fields can't be empty",
			"requestID": requestID,
		})
		return
	}

	ok, err := d.Verif.Confirm(c.Request.Context(), data.Email, data.Code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Verification cache unreachable", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid or expired code",
			"requestID": requestID,
		})
		return
	}

	err = d.DB.Model(model.User{}).
		Where("email = ?", data.Email).
		Update("verified", true).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to mark user as verified", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified": true,
	})
}
