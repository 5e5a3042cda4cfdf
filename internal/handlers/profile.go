package handlers

import (
	"context"
	"net/http"
	"path/filepath"

	"learnweave/internal/logger"
	"learnweave/internal/middlewares"
	"learnweave/internal/models"
	"learnweave/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	userRepo      repositories.UserRepository
	uploadDir     string
	uploadURLPath string
}

func NewProfileHandler(userRepo repositories.UserRepository, uploadDir string) *ProfileHandler {
	return &ProfileHandler{
		userRepo:      userRepo,
		uploadDir:     uploadDir,
		uploadURLPath: "/uploads",
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.userRepo.GetByID(context.Background(), middlewares.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": models.Profile{
		FullName:   user.FullName,
		Email:      user.Email,
		Photo:      user.Photo,
		Supercoins: user.Supercoins,
	}})
}

// UpdateProfile accepts multipart form data with an optional photo. The
// stored filename is randomized; the original name is only kept for its
// extension.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := middlewares.UserID(c)
	fullName := c.PostForm("fullName")
	if fullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Full name is required"})
		return
	}

	var photo *string
	if file, err := c.FormFile("photo"); err == nil {
		name := uuid.NewString() + filepath.Ext(file.Filename)
		dest := filepath.Join(h.uploadDir, name)
		if err := c.SaveUploadedFile(file, dest); err != nil {
			logger.Log.Error("Failed to save uploaded photo", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save photo"})
			return
		}
		url := h.uploadURLPath + "/" + name
		photo = &url
	}

	if err := h.userRepo.UpdateProfile(context.Background(), userID, fullName, photo); err != nil {
		logger.Log.Error("Failed to update profile", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	user, err := h.userRepo.GetByID(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": models.Profile{
			FullName:   user.FullName,
			Email:      user.Email,
			Photo:      user.Photo,
			Supercoins: user.Supercoins,
		},
	})
}

func (h *ProfileHandler) CheckAdmin(c *gin.Context) {
	user, err := h.userRepo.GetByID(context.Background(), middlewares.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"isAdmin": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAdmin": user.IsAdmin()})
}

func (h *ProfileHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.GET("/get-profile", auth, h.GetProfile)
	router.POST("/update-profile", auth, h.UpdateProfile)
	router.GET("/check-admin", auth, h.CheckAdmin)
}
