package controllers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"expenditure-approval-api/config"
	"expenditure-approval-api/models"
	"expenditure-approval-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const otpTTL = 10 * time.Minute

var (
	otpGenerator = func() (string, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%06d", n.Int64()+100000), nil
	}

	sendMailFunc                              = config.SendMail
	passwordResetRepo passwordResetRepository = &gormPasswordResetRepository{}
)

type passwordResetRepository interface {
	FindUserByEmail(email string) (*models.User, error)
	RevokePasswordResetTokens(userID int, now time.Time) error
	CreateUserToken(token *models.UserToken) error
	FindActivePasswordResetToken(userID int, now time.Time) (*models.UserToken, error)
	UpdateUserPassword(userID int, hashedPassword string, now time.Time) error
	RevokeToken(tokenID int, now time.Time) error
}

type gormPasswordResetRepository struct{}

func (r *gormPasswordResetRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormPasswordResetRepository) RevokePasswordResetTokens(userID int, now time.Time) error {
	if userID == 0 {
		return nil
	}

	return config.DB.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, "password_reset", false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) CreateUserToken(token *models.UserToken) error {
	return config.DB.Create(token).Error
}

func (r *gormPasswordResetRepository) FindActivePasswordResetToken(userID int, now time.Time) (*models.UserToken, error) {
	var token models.UserToken
	err := config.DB.Where("user_id = ? AND token_type = ? AND is_revoked = ? AND expires_at > ?",
		userID, "password_reset", false, now).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *gormPasswordResetRepository) UpdateUserPassword(userID int, hashedPassword string, now time.Time) error {
	return config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password":  hashedPassword,
			"update_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) RevokeToken(tokenID int, now time.Time) error {
	return config.DB.Model(&models.UserToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword issues a one-time reset code and emails it. Codes live in
// user_tokens with a ten-minute expiry, never in process memory.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid email format",
		})
		return
	}

	user, err := passwordResetRepo.FindUserByEmail(req.Email)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to process request",
			})
			return
		}

		// Always return success for non-existing users to avoid email enumeration.
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "If the email exists, a reset code has been sent.",
		})
		return
	}

	otp, err := otpGenerator()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create reset code",
		})
		return
	}

	hashedOTP, err := utils.HashPassword(otp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to secure reset code",
		})
		return
	}

	now := time.Now()
	if err := passwordResetRepo.RevokePasswordResetTokens(user.UserID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to prepare reset code",
		})
		return
	}

	token := models.UserToken{
		UserID:     user.UserID,
		TokenType:  "password_reset",
		Token:      hashedOTP,
		ExpiresAt:  now.Add(otpTTL),
		IsRevoked:  false,
		DeviceInfo: "password_reset",
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := passwordResetRepo.CreateUserToken(&token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to store reset code",
		})
		return
	}

	if err := sendPasswordResetEmail(*user, otp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send reset email",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the email exists, a reset code has been sent.",
	})
}

// VerifyOTP checks a reset code without consuming it, so the frontend can
// gate the new-password form.
func VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
		})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	req.OTP = utils.SanitizeInput(req.OTP)

	if _, err := verifyResetCode(req.Email, req.OTP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid or expired code",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Code verified",
	})
}

// ResetPassword sets a new password after verifying and consuming the code.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	req.OTP = utils.SanitizeInput(req.OTP)
	req.NewPassword = utils.SanitizeInput(req.NewPassword)
	req.ConfirmPassword = utils.SanitizeInput(req.ConfirmPassword)

	if req.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Reset code is required",
		})
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Passwords do not match",
		})
		return
	}

	if valid, message := utils.ValidatePassword(req.NewPassword); !valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   message,
		})
		return
	}

	tokenRecord, err := verifyResetCode(req.Email, req.OTP)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid or expired code",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to verify code",
		})
		return
	}

	now := time.Now()
	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to hash password",
		})
		return
	}

	if err := passwordResetRepo.UpdateUserPassword(tokenRecord.UserID, hashedPassword, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update password",
		})
		return
	}

	if err := passwordResetRepo.RevokeToken(tokenRecord.TokenID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to revoke code",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully",
	})
}

func verifyResetCode(email, otp string) (*models.UserToken, error) {
	user, err := passwordResetRepo.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}

	token, err := passwordResetRepo.FindActivePasswordResetToken(user.UserID, time.Now())
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(otp, token.Token) {
		return nil, gorm.ErrRecordNotFound
	}
	return token, nil
}

func sendPasswordResetEmail(user models.User, otp string) error {
	fullName := user.FullName()
	if fullName == "" {
		fullName = "User"
	}

	subject := "Password Reset Code"
	expiresIn := fmt.Sprintf("%.0f minutes", otpTTL.Minutes())

	html := fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>We received a request to reset your password for the expenditure approval system.</p>"+
			"<p>Your one-time code is:</p>"+
			"<p style=\"font-size:24px;font-weight:bold;letter-spacing:4px;\">%s</p>"+
			"<p>The code expires in %s. If you did not request this, you can ignore this email.</p>",
		fullName, otp, expiresIn,
	)

	return sendMailFunc([]string{user.Email}, subject, html)
}
