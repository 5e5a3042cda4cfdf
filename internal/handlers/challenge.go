package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"learnweave/internal/logger"
	"learnweave/internal/middlewares"
	"learnweave/internal/models"
	"learnweave/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NotificationStream is the redis stream the fan-out workers consume.
const NotificationStream = "notifications"

type ChallengeHandler struct {
	challengeRepo repositories.ChallengeRepository
	solutionRepo  repositories.SolutionRepository
	userRepo      repositories.UserRepository
	rdb           *redis.Client
}

func NewChallengeHandler(challengeRepo repositories.ChallengeRepository,
	solutionRepo repositories.SolutionRepository,
	userRepo repositories.UserRepository,
	rdb *redis.Client) *ChallengeHandler {
	return &ChallengeHandler{
		challengeRepo: challengeRepo,
		solutionRepo:  solutionRepo,
		userRepo:      userRepo,
		rdb:           rdb,
	}
}

func (h *ChallengeHandler) SubmitChallenge(c *gin.Context) {
	var req models.SubmitChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields except answer are required"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.userRepo.GetByID(context.Background(), middlewares.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	// Only admins may file placement challenges; everyone else gets normal.
	challengeType := models.ChallengeTypeNormal
	if user.IsAdmin() {
		challengeType = req.NormalizedType()
	}

	difficulty := models.NormalizeDifficulty(req.Difficulty)
	challenge := &models.Challenge{
		UserID:        user.ID,
		Language:      strings.ToUpper(req.Language),
		Difficulty:    difficulty,
		Topic:         req.Topic,
		Question:      req.Question,
		ChallengeType: challengeType,
		Supercoins:    models.RewardForDifficulty(difficulty),
		TestCases:     req.TestCases,
		Steps:         req.Steps,
	}
	if req.Answer != "" {
		challenge.Answer = &req.Answer
	}

	if err := h.challengeRepo.Create(context.Background(), challenge); err != nil {
		logger.Log.Error("Failed to create challenge", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// Authoring a challenge earns the same fixed reward as solving it.
	if err := h.userRepo.AddSupercoins(context.Background(), user.ID, challenge.Supercoins); err != nil {
		logger.Log.Error("Failed to credit author supercoins",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}

	h.enqueueNotification(c, user, challenge)

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Challenge submitted successfully",
		"challengeId":   challenge.ID,
		"challengeType": challenge.ChallengeType,
	})
}

// enqueueNotification hands the fan-out notice to the worker pool. It is
// best-effort: a queue failure is logged but never fails the submission.
func (h *ChallengeHandler) enqueueNotification(c *gin.Context, user *models.User, challenge *models.Challenge) {
	message := fmt.Sprintf("%s has submitted a new %s challenge in %s (%s level).",
		user.FullName, challenge.ChallengeType, challenge.Language, challenge.Difficulty)

	err := h.rdb.XAdd(context.Background(), &redis.XAddArgs{
		Stream: NotificationStream,
		ID:     "*",
		Values: map[string]interface{}{
			"message":      message,
			"created_by":   strconv.FormatInt(user.ID, 10),
			"challenge_id": strconv.FormatInt(challenge.ID, 10),
			"type":         models.NotificationTypeChallengeSubmission,
		},
	}).Err()
	if err != nil {
		logger.Log.Warn("Failed to enqueue notification",
			zap.Int64("challenge_id", challenge.ID),
			zap.Error(err))
	}
}

// ListChallenges returns everyone else's challenges, optionally filtered by
// language tag and challenge type.
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	language := c.Query("language")
	if language != "" && language != "undefined" {
		language = strings.ToUpper(language)
	} else {
		language = ""
	}

	challengeType := c.Query("challengeType")
	if challengeType != models.ChallengeTypeNormal && challengeType != models.ChallengeTypePlacement {
		challengeType = ""
	}

	challenges, err := h.challengeRepo.List(context.Background(), middlewares.UserID(c), language, challengeType)
	if err != nil {
		logger.Log.Error("Failed to list challenges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// ListSolutions serves two shapes: with userId it is an existence check for
// the (challenge, user) pair, without it lists a challenge's solutions.
func (h *ChallengeHandler) ListSolutions(c *gin.Context) {
	challengeIDStr := c.Query("challengeId")
	if challengeIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Challenge ID is required"})
		return
	}
	challengeID, err := strconv.ParseInt(challengeIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid challenge ID"})
		return
	}

	if userIDStr := c.Query("userId"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}

		exists, err := h.solutionRepo.Exists(context.Background(), challengeID, userID)
		if err != nil {
			logger.Log.Error("Failed to check solution", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"solved": exists})
		return
	}

	solutions, err := h.solutionRepo.ListByChallenge(context.Background(), challengeID)
	if err != nil {
		logger.Log.Error("Failed to list solutions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"solutions": solutions})
}

func (h *ChallengeHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/submit-challenge", auth, h.SubmitChallenge)
	router.GET("/challenges", auth, h.ListChallenges)
	router.GET("/solutions", auth, h.ListSolutions)
}
