package api

import (
	"time"

	"myfinances/config"
	"myfinances/database"
	"myfinances/models"
	"myfinances/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// PasswordResetHandler handles the mail-based password reset flow.
type PasswordResetHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewPasswordResetHandler creates the password reset handler.
func NewPasswordResetHandler(cfg *config.Config) *PasswordResetHandler {
	return &PasswordResetHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// RequestResetRequest asks for a reset mail.
type RequestResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest redeems a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// RequestPasswordReset sends a reset mail for the given address.
// @Summary Request password reset
// @Description Request a password reset mail. Always answers success so the
// @Description endpoint cannot be used to probe which addresses exist.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RequestResetRequest true "email address"
// @Success 200 {object} Response "accepted"
// @Failure 400 {object} Response "invalid payload"
// @Failure 500 {object} Response "mail delivery failed"
// @Router /api/v1/auth/password/request-reset [post]
func (h *PasswordResetHandler) RequestPasswordReset(c *gin.Context) {
	var req RequestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "enter a valid email address")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// do not reveal whether the address is registered
		SuccessWithMessage(c, "if that address is registered, a reset mail is on its way", nil)
		return
	}

	// an unused valid token means a mail went out already
	var existingToken models.PasswordReset
	if err := database.DB.Where("user_id = ? AND used = ? AND expires_at > ?", user.ID, false, time.Now()).First(&existingToken).Error; err == nil {
		SuccessWithMessage(c, "a reset mail was already sent, check your inbox", nil)
		return
	}

	token, err := models.GenerateToken()
	if err != nil {
		InternalError(c, "token generation failed")
		return
	}

	passwordReset := models.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		Email:     req.Email,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	if err := database.DB.Create(&passwordReset).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create reset token failed"))
		return
	}

	resetLink := h.cfg.Server.BaseURL + "/#/reset-password?token=" + token

	if err := h.emailService.SendPasswordResetEmail(req.Email, user.Username, resetLink); err != nil {
		// roll the token back so a retry can issue a new one
		database.DB.Delete(&passwordReset)
		InternalError(c, SafeErrorMessage(err, "mail delivery failed"))
		return
	}

	SuccessWithMessage(c, "if that address is registered, a reset mail is on its way", nil)
}

// VerifyResetToken checks a token before showing the reset form.
// @Summary Verify reset token
// @Description Check whether a password reset token is still valid.
// @Tags auth
// @Produce json
// @Param token query string true "reset token"
// @Success 200 {object} Response "valid"
// @Failure 400 {object} Response "invalid or expired token"
// @Router /api/v1/auth/password/verify-token [get]
func (h *PasswordResetHandler) VerifyResetToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		BadRequest(c, "missing token")
		return
	}

	var passwordReset models.PasswordReset
	if err := database.DB.Where("token = ?", token).First(&passwordReset).Error; err != nil {
		BadRequest(c, "invalid or expired token")
		return
	}
	if !passwordReset.IsValid() {
		BadRequest(c, "invalid or expired token")
		return
	}

	Success(c, gin.H{"email": passwordReset.Email})
}

// ResetPassword redeems a token and sets the new password.
// @Summary Reset password
// @Description Redeem a reset token and set a new password.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "token and new password"
// @Success 200 {object} Response "password reset"
// @Failure 400 {object} Response "invalid payload or token"
// @Router /api/v1/auth/password/reset [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}

	var passwordReset models.PasswordReset
	if err := database.DB.Where("token = ?", req.Token).First(&passwordReset).Error; err != nil {
		BadRequest(c, "invalid or expired token")
		return
	}
	if !passwordReset.IsValid() {
		BadRequest(c, "invalid or expired token")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "password hashing failed")
		return
	}

	if err := database.DB.Model(&models.User{}).
		Where("id = ?", passwordReset.UserID).
		Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update password failed"))
		return
	}

	// single use
	database.DB.Model(&passwordReset).Update("used", true)

	SuccessWithMessage(c, "password reset", nil)
}
