package handlers

import (
	"context"
	"errors"
	"net/http"

	"learnweave/internal/logger"
	"learnweave/internal/models"
	"learnweave/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EvaluationHandler struct {
	evaluator *services.Evaluator
}

func NewEvaluationHandler(evaluator *services.Evaluator) *EvaluationHandler {
	return &EvaluationHandler{evaluator: evaluator}
}

// Compile grades a submission against its challenge's test cases. A user
// that has already solved the challenge gets the distinguished
// already-solved response and no code is executed.
func (h *EvaluationHandler) Compile(c *gin.Context) {
	var req models.CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	report, err := h.evaluator.Evaluate(context.Background(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadySolved):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "You already solved this challenge. Please try other challenges.",
			})
		case errors.Is(err, services.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		case errors.Is(err, services.ErrUnsupportedLanguage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language"})
		default:
			logger.Log.Error("Evaluation failed",
				zap.Int64("challenge_id", req.ChallengeID),
				zap.Int64("user_id", req.UserID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Execution failed"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// Sandbox runs code against caller-supplied test cases with no grading
// side effects.
func (h *EvaluationHandler) Sandbox(c *gin.Context) {
	var req models.SandboxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	report, err := h.evaluator.RunSandbox(context.Background(), req)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedLanguage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language"})
			return
		}
		logger.Log.Error("Sandbox run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Execution failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *EvaluationHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/compile", auth, h.Compile)
	router.POST("/geminicompiler", auth, h.Sandbox)
}
