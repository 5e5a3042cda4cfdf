package repositories

import (
	"context"
	"errors"
	"fmt"

	"learnweave/internal/models"
	"learnweave/internal/services"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// mysqlDuplicateEntry is the server error code for a unique-key violation.
const mysqlDuplicateEntry = 1062

type SolutionRepository interface {
	services.SolutionStore
	ListByChallenge(ctx context.Context, challengeID int64) ([]models.Solution, error)
	CountByLanguage(ctx context.Context, userID int64) (map[string]int, error)
	SumSupercoinsByUser(ctx context.Context, userID int64) (int, error)
}

type solutionRepository struct {
	db *sqlx.DB
}

func NewSolutionRepository(db *sqlx.DB) SolutionRepository {
	return &solutionRepository{db: db}
}

func (r *solutionRepository) Exists(ctx context.Context, challengeID, userID int64) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM solutions WHERE challenge_id = ? AND user_id = ?`,
		challengeID, userID); err != nil {
		return false, fmt.Errorf("failed to check for existing solution: %w", err)
	}
	return count > 0, nil
}

// Create persists the solution, its ordered per-test results and the user's
// reward in one transaction. A unique key on (challenge_id, user_id) backs
// the pre-check in the evaluator, so two racing submissions cannot both
// land: the loser gets ErrAlreadySolved and credits nothing.
func (r *solutionRepository) Create(ctx context.Context, solution *models.Solution) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO solutions (challenge_id, user_id, code, supercoins) VALUES (?, ?, ?, ?)`,
		solution.ChallengeID, solution.UserID, solution.Code, solution.Supercoins,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return services.ErrAlreadySolved
		}
		return fmt.Errorf("failed to create solution: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	solution.ID = id

	for i, res := range solution.Results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO solution_results (solution_id, position, input, expected_output, actual_output, passed)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, res.Input, res.ExpectedOutput, res.ActualOutput, res.Passed,
		); err != nil {
			return fmt.Errorf("failed to insert solution result: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET supercoins = supercoins + ? WHERE id = ?`,
		solution.Supercoins, solution.UserID,
	); err != nil {
		return fmt.Errorf("failed to credit supercoins: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit solution: %w", err)
	}
	return nil
}

func (r *solutionRepository) ListByChallenge(ctx context.Context, challengeID int64) ([]models.Solution, error) {
	var solutions []models.Solution
	if err := r.db.SelectContext(ctx, &solutions,
		`SELECT id, challenge_id, user_id, code, supercoins, created_at
		 FROM solutions WHERE challenge_id = ? ORDER BY created_at DESC`,
		challengeID); err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}

	for i := range solutions {
		if err := r.db.SelectContext(ctx, &solutions[i].Results,
			`SELECT input, expected_output, actual_output, passed
			 FROM solution_results WHERE solution_id = ? ORDER BY position`,
			solutions[i].ID); err != nil {
			return nil, fmt.Errorf("failed to get solution results: %w", err)
		}
	}

	return solutions, nil
}

func (r *solutionRepository) CountByLanguage(ctx context.Context, userID int64) (map[string]int, error) {
	rows := []struct {
		Language string `db:"language"`
		Count    int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT c.language, COUNT(*) AS count
		 FROM solutions s
		 JOIN challenges c ON c.id = s.challenge_id
		 WHERE s.user_id = ?
		 GROUP BY c.language`,
		userID); err != nil {
		return nil, fmt.Errorf("failed to count solutions by language: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Language] = row.Count
	}
	return counts, nil
}

func (r *solutionRepository) SumSupercoinsByUser(ctx context.Context, userID int64) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(supercoins), 0) FROM solutions WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to sum solution supercoins: %w", err)
	}
	return total, nil
}
