package handlers

import (
	"context"
	"errors"
	"net/http"

	"learnweave/internal/logger"
	"learnweave/internal/repositories"
	"learnweave/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AIHandler struct {
	generator     services.TextGenerator
	challengeRepo repositories.ChallengeRepository
}

func NewAIHandler(generator services.TextGenerator, challengeRepo repositories.ChallengeRepository) *AIHandler {
	return &AIHandler{generator: generator, challengeRepo: challengeRepo}
}

// GenerateRoadmap asks the AI service for a day-by-day learning plan. When
// the service is down the endpoint degrades to static default content
// instead of failing.
func (h *AIHandler) GenerateRoadmap(c *gin.Context) {
	var req struct {
		Technology string `json:"technology" binding:"required"`
		Days       int    `json:"days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Technology and days are required"})
		return
	}

	roadmap, err := h.generator.GenerateText(context.Background(), services.RoadmapPrompt(req.Technology, req.Days))
	if err != nil {
		logger.Log.Warn("AI roadmap generation failed, serving fallback",
			zap.String("technology", req.Technology),
			zap.Error(err))
		roadmap = services.FallbackRoadmap(req.Technology, req.Days)
	}

	c.JSON(http.StatusOK, gin.H{"roadmap": roadmap})
}

// GetHelp generates a step-by-step solving guide for a challenge.
func (h *AIHandler) GetHelp(c *gin.Context) {
	var req struct {
		ChallengeID int64 `json:"challengeId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Challenge ID is required"})
		return
	}

	challenge, err := h.challengeRepo.GetByID(context.Background(), req.ChallengeID)
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
			return
		}
		logger.Log.Error("Failed to load challenge for guide", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	prompt := services.ChallengeGuidePrompt(challenge.Topic, challenge.Language, challenge.Question)
	guide, err := h.generator.GenerateText(context.Background(), prompt)
	if err != nil {
		logger.Log.Warn("AI guide generation failed, serving fallback",
			zap.Int64("challenge_id", req.ChallengeID),
			zap.Error(err))
		guide = services.FallbackGuide(challenge.Topic)
	}

	c.JSON(http.StatusOK, gin.H{"guide": guide})
}

func (h *AIHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/api/generateroadmap", h.GenerateRoadmap)
	router.POST("/get-help", auth, h.GetHelp)
}
