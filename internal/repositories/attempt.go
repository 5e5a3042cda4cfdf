package repositories

import (
	"context"
	"fmt"

	"learnweave/internal/models"

	"github.com/jmoiron/sqlx"
)

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.Attempt) error
	// History pages through one user's attempts, newest first, and also
	// returns the total attempt count for that user.
	History(ctx context.Context, userID int64, page, limit int) ([]models.Attempt, int, error)
	// Leaderboard aggregates attempts per user: cumulative score, best
	// single score, fastest completion. Company and sinceDays filters are
	// optional (zero values disable them).
	Leaderboard(ctx context.Context, company string, limit, sinceDays int) ([]models.LeaderboardEntry, error)
}

type attemptRepository struct {
	db *sqlx.DB
}

func NewAttemptRepository(db *sqlx.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *models.Attempt) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO attempts (user_id, user_name, company, quiz_correct, quiz_total, coding_pts, total, time_taken_sec, duration_sec)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.UserID, attempt.UserName, attempt.Company,
		attempt.QuizCorrect, attempt.QuizTotal, attempt.CodingPts, attempt.Total,
		attempt.TimeTakenSec, attempt.DurationSec,
	)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	attempt.ID = id
	return nil
}

func (r *attemptRepository) History(ctx context.Context, userID int64, page, limit int) ([]models.Attempt, int, error) {
	offset := (page - 1) * limit

	var attempts []models.Attempt
	if err := r.db.SelectContext(ctx, &attempts,
		`SELECT id, user_id, user_name, company, quiz_correct, quiz_total, coding_pts, total,
		        time_taken_sec, duration_sec, created_at
		 FROM attempts WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to get attempt history: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM attempts WHERE user_id = ?`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count attempts: %w", err)
	}

	return attempts, total, nil
}

func (r *attemptRepository) Leaderboard(ctx context.Context, company string, limit, sinceDays int) ([]models.LeaderboardEntry, error) {
	query := `SELECT a.user_id, a.user_name,
	                 SUM(a.total) AS total_score,
	                 MAX(a.total) AS best_score,
	                 MIN(a.time_taken_sec) AS best_time,
	                 MAX(a.created_at) AS last_attempt_at,
	                 u.full_name, u.email, u.photo
	          FROM attempts a
	          LEFT JOIN users u ON u.id = a.user_id
	          WHERE 1 = 1`
	args := []interface{}{}

	if company != "" {
		query += ` AND a.company = ?`
		args = append(args, company)
	}
	if sinceDays > 0 {
		query += ` AND a.created_at >= DATE_SUB(NOW(), INTERVAL ? DAY)`
		args = append(args, sinceDays)
	}

	query += ` GROUP BY a.user_id, a.user_name, u.full_name, u.email, u.photo
	           ORDER BY total_score DESC
	           LIMIT ?`
	args = append(args, limit)

	var entries []models.LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}
