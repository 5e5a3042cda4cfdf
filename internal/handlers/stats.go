package handlers

import (
	"context"
	"net/http"
	"strconv"

	"learnweave/internal/logger"
	"learnweave/internal/middlewares"
	"learnweave/internal/repositories"
	"learnweave/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatsHandler struct {
	userRepo      repositories.UserRepository
	challengeRepo repositories.ChallengeRepository
	solutionRepo  repositories.SolutionRepository
}

func NewStatsHandler(userRepo repositories.UserRepository,
	challengeRepo repositories.ChallengeRepository,
	solutionRepo repositories.SolutionRepository) *StatsHandler {
	return &StatsHandler{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		solutionRepo:  solutionRepo,
	}
}

// UserChallenges returns the caller's authored-challenge counts per language.
func (h *StatsHandler) UserChallenges(c *gin.Context) {
	counts, err := h.challengeRepo.CountByLanguage(context.Background(), middlewares.UserID(c))
	if err != nil {
		logger.Log.Error("Failed to count challenges by language", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

// UserSolutions returns the caller's solved-challenge counts per language.
func (h *StatsHandler) UserSolutions(c *gin.Context) {
	counts, err := h.solutionRepo.CountByLanguage(context.Background(), middlewares.UserID(c))
	if err != nil {
		logger.Log.Error("Failed to count solutions by language", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

// TotalSupercoins sums the coins a user earned from authored challenges and
// accepted solutions.
func (h *StatsHandler) TotalSupercoins(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	challengeCoins, err := h.challengeRepo.SumSupercoinsByUser(context.Background(), userID)
	if err != nil {
		logger.Log.Error("Failed to sum challenge supercoins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	solutionCoins, err := h.solutionRepo.SumSupercoinsByUser(context.Background(), userID)
	if err != nil {
		logger.Log.Error("Failed to sum solution supercoins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalSupercoins": challengeCoins + solutionCoins})
}

func (h *StatsHandler) TotalUsers(c *gin.Context) {
	count, err := h.userRepo.Count(context.Background())
	if err != nil {
		logger.Log.Error("Failed to count users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalUsers": count})
}

func (h *StatsHandler) TotalChallenges(c *gin.Context) {
	count, err := h.challengeRepo.Count(context.Background())
	if err != nil {
		logger.Log.Error("Failed to count challenges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalChallenges": count})
}

func (h *StatsHandler) SupportedLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"supportedLanguages": services.SupportedLanguageCount()})
}

func (h *StatsHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.GET("/api/user-challenges", auth, h.UserChallenges)
	router.GET("/api/user-solutions", auth, h.UserSolutions)
	router.GET("/total-supercoins/:userId", h.TotalSupercoins)
	router.GET("/total-users", h.TotalUsers)
	router.GET("/total-challenges", h.TotalChallenges)
	router.GET("/supported-languages", h.SupportedLanguages)
}
