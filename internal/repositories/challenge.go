package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"learnweave/internal/models"
	"learnweave/internal/services"

	"github.com/jmoiron/sqlx"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id int64) (*models.Challenge, error)
	GetTestCases(ctx context.Context, challengeID int64) ([]models.TestCase, error)
	List(ctx context.Context, excludeUserID int64, language, challengeType string) ([]models.Challenge, error)
	CountByLanguage(ctx context.Context, userID int64) (map[string]int, error)
	Count(ctx context.Context) (int, error)
	SumSupercoinsByUser(ctx context.Context, userID int64) (int, error)
}

type challengeRepository struct {
	db    *sqlx.DB
	cache services.Cache
}

func NewChallengeRepository(db *sqlx.DB, cache services.Cache) ChallengeRepository {
	return &challengeRepository{db: db, cache: cache}
}

const challengeColumns = `id, user_id, language, difficulty, topic, question, answer, challenge_type, supercoins, created_at`

// Create inserts the challenge with its ordered test cases and steps in one
// transaction. The reward is fixed at insert time from the difficulty.
func (r *challengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO challenges (user_id, language, difficulty, topic, question, answer, challenge_type, supercoins)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		challenge.UserID, challenge.Language, challenge.Difficulty, challenge.Topic,
		challenge.Question, challenge.Answer, challenge.ChallengeType, challenge.Supercoins,
	)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	challenge.ID = id

	for i, tc := range challenge.TestCases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO challenge_test_cases (challenge_id, position, input, expected_output) VALUES (?, ?, ?, ?)`,
			id, i, tc.Input, tc.Output,
		); err != nil {
			return fmt.Errorf("failed to insert test case: %w", err)
		}
	}

	for i, step := range challenge.Steps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO challenge_steps (challenge_id, position, step) VALUES (?, ?, ?)`,
			id, i, step,
		); err != nil {
			return fmt.Errorf("failed to insert step: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit challenge: %w", err)
	}
	return nil
}

func (r *challengeRepository) GetByID(ctx context.Context, id int64) (*models.Challenge, error) {
	var challenge models.Challenge
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = ?`
	if err := r.db.GetContext(ctx, &challenge, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, services.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	testCases, err := r.GetTestCases(ctx, id)
	if err != nil {
		return nil, err
	}
	challenge.TestCases = testCases

	if err := r.db.SelectContext(ctx, &challenge.Steps,
		`SELECT step FROM challenge_steps WHERE challenge_id = ? ORDER BY position`, id); err != nil {
		return nil, fmt.Errorf("failed to get steps: %w", err)
	}

	return &challenge, nil
}

// GetTestCases returns the ordered test cases, cached in redis since they
// are read once per test case run but never change after creation.
func (r *challengeRepository) GetTestCases(ctx context.Context, challengeID int64) ([]models.TestCase, error) {
	cacheKey := fmt.Sprintf("challenge:%d:testcases", challengeID)

	var testCases []models.TestCase
	if err := r.cache.Get(ctx, cacheKey, &testCases); err == nil {
		return testCases, nil
	}

	if err := r.db.SelectContext(ctx, &testCases,
		`SELECT input, expected_output FROM challenge_test_cases WHERE challenge_id = ? ORDER BY position`,
		challengeID); err != nil {
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, testCases, 1*time.Hour)

	return testCases, nil
}

// List returns challenges not authored by excludeUserID, optionally
// filtered by language tag and challenge type, newest first.
func (r *challengeRepository) List(ctx context.Context, excludeUserID int64, language, challengeType string) ([]models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE user_id <> ?`
	args := []interface{}{excludeUserID}

	if language != "" {
		query += ` AND language = ?`
		args = append(args, language)
	}
	if challengeType != "" {
		query += ` AND challenge_type = ?`
		args = append(args, challengeType)
	}
	query += ` ORDER BY created_at DESC`

	var challenges []models.Challenge
	if err := r.db.SelectContext(ctx, &challenges, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	for i := range challenges {
		testCases, err := r.GetTestCases(ctx, challenges[i].ID)
		if err != nil {
			return nil, err
		}
		challenges[i].TestCases = testCases

		if err := r.db.SelectContext(ctx, &challenges[i].Steps,
			`SELECT step FROM challenge_steps WHERE challenge_id = ? ORDER BY position`,
			challenges[i].ID); err != nil {
			return nil, fmt.Errorf("failed to get steps: %w", err)
		}
	}

	return challenges, nil
}

func (r *challengeRepository) CountByLanguage(ctx context.Context, userID int64) (map[string]int, error) {
	rows := []struct {
		Language string `db:"language"`
		Count    int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT language, COUNT(*) AS count FROM challenges WHERE user_id = ? GROUP BY language`,
		userID); err != nil {
		return nil, fmt.Errorf("failed to count challenges by language: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Language] = row.Count
	}
	return counts, nil
}

func (r *challengeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM challenges`); err != nil {
		return 0, fmt.Errorf("failed to count challenges: %w", err)
	}
	return count, nil
}

func (r *challengeRepository) SumSupercoinsByUser(ctx context.Context, userID int64) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(supercoins), 0) FROM challenges WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to sum challenge supercoins: %w", err)
	}
	return total, nil
}
