package handlers

import (
	"context"
	"net/http"
	"strconv"

	"learnweave/internal/logger"
	"learnweave/internal/middlewares"
	"learnweave/internal/models"
	"learnweave/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AttemptHandler struct {
	attemptRepo repositories.AttemptRepository
	userRepo    repositories.UserRepository
}

func NewAttemptHandler(attemptRepo repositories.AttemptRepository, userRepo repositories.UserRepository) *AttemptHandler {
	return &AttemptHandler{attemptRepo: attemptRepo, userRepo: userRepo}
}

func (h *AttemptHandler) CreateAttempt(c *gin.Context) {
	var req models.AttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid fields."})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.GetByID(context.Background(), middlewares.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	attempt := &models.Attempt{
		UserID:       user.ID,
		UserName:     user.FullName,
		Company:      req.Company,
		QuizCorrect:  *req.QuizCorrect,
		QuizTotal:    *req.QuizTotal,
		CodingPts:    *req.CodingPts,
		Total:        *req.Total,
		TimeTakenSec: req.TimeTakenSec,
		DurationSec:  req.DurationSec,
	}

	if err := h.attemptRepo.Create(context.Background(), attempt); err != nil {
		logger.Log.Error("Failed to save attempt", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attempt."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "attemptId": attempt.ID})
}

func (h *AttemptHandler) History(c *gin.Context) {
	page := parseIntQuery(c, "page", 1, 1, 0)
	limit := parseIntQuery(c, "limit", 20, 1, 100)

	attempts, total, err := h.attemptRepo.History(context.Background(), middlewares.UserID(c), page, limit)
	if err != nil {
		logger.Log.Error("Failed to fetch attempt history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"items": attempts,
	})
}

func (h *AttemptHandler) Leaderboard(c *gin.Context) {
	company := c.Query("company")
	limit := parseIntQuery(c, "limit", 50, 1, 100)
	sinceDays := parseIntQuery(c, "sinceDays", 0, 0, 0)

	entries, err := h.attemptRepo.Leaderboard(context.Background(), company, limit, sinceDays)
	if err != nil {
		logger.Log.Error("Failed to fetch leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard."})
		return
	}

	var companyOut interface{}
	if company != "" {
		companyOut = company
	}
	var sinceOut interface{}
	if sinceDays > 0 {
		sinceOut = sinceDays
	}

	c.JSON(http.StatusOK, gin.H{
		"company":   companyOut,
		"limit":     limit,
		"sinceDays": sinceOut,
		"items":     entries,
	})
}

// parseIntQuery reads an int query param clamped to [min, max]; max of 0
// means unbounded.
func parseIntQuery(c *gin.Context, name string, fallback, min, max int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		value = fallback
	}
	if value < min {
		value = min
	}
	if max > 0 && value > max {
		value = max
	}
	return value
}

func (h *AttemptHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/attempts", auth, h.CreateAttempt)
	router.GET("/attempts/history", auth, h.History)
	router.GET("/attempts/leaderboard", h.Leaderboard)
}
