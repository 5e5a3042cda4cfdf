package handlers

import (
	"context"
	"net/http"

	"learnweave/internal/logger"
	"learnweave/internal/middlewares"
	"learnweave/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationHandler(notificationRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := middlewares.UserID(c)

	notifications, err := h.notificationRepo.ListForUser(context.Background(), userID)
	if err != nil {
		logger.Log.Error("Failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	unseen, err := h.notificationRepo.UnseenCount(context.Background(), userID)
	if err != nil {
		logger.Log.Error("Failed to count unseen notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unseen": unseen})
}

func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	if err := h.notificationRepo.MarkAllSeen(context.Background(), middlewares.UserID(c)); err != nil {
		logger.Log.Error("Failed to mark notifications seen", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as seen"})
}

func (h *NotificationHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.GET("/notifications", auth, h.ListNotifications)
	router.POST("/notifications/mark-seen", auth, h.MarkSeen)
}
