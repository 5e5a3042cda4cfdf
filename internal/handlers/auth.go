package handlers

import (
	"context"
	"net/http"
	"strings"

	"learnweave/internal/logger"
	"learnweave/internal/models"
	"learnweave/internal/repositories"
	"learnweave/internal/services"
	"learnweave/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userRepo     repositories.UserRepository
	tokenService *services.TokenService
	otpStore     *services.OTPStore
	mailer       services.Mailer
}

func NewAuthHandler(userRepo repositories.UserRepository, tokenService *services.TokenService,
	otpStore *services.OTPStore, mailer services.Mailer) *AuthHandler {
	return &AuthHandler{
		userRepo:     userRepo,
		tokenService: tokenService,
		otpStore:     otpStore,
		mailer:       mailer,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred, please try again"})
		return
	}

	user, err := h.userRepo.Create(context.Background(), req.FullName, req.Email, hash)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		logger.Log.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred, please try again"})
		return
	}

	token, err := h.tokenService.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		logger.Log.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred, please try again"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User signed up successfully", "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	user, err := h.userRepo.GetByEmail(context.Background(), req.Email)
	if err != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := h.tokenService.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		logger.Log.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.userRepo.UpdateLastLogin(context.Background(), user.ID); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	code, err := h.otpStore.Generate(context.Background(), req.Email)
	if err != nil {
		logger.Log.Error("Failed to generate OTP", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send OTP"})
		return
	}

	if err := h.mailer.SendOTP(req.Email, code); err != nil {
		logger.Log.Error("Failed to send OTP mail", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		return
	}

	if err := h.otpStore.Verify(context.Background(), req.Email, req.OTP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and new password are required"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.userRepo.UpdatePassword(context.Background(), req.Email, hash); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		logger.Log.Error("Failed to reset password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)
	router.POST("/sendotp", h.SendOTP)
	router.POST("/verify", h.VerifyOTP)
	router.POST("/reset-password", h.ResetPassword)
}
