package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"learnweave/internal/models"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	Create(ctx context.Context, fullName, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, fullName string, photo *string) error
	UpdateLastLogin(ctx context.Context, id int64) error
	AddSupercoins(ctx context.Context, id int64, delta int) error
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, full_name, email, password_hash, photo, supercoins, role, last_login, created_at`

func (r *userRepository) Create(ctx context.Context, fullName, email, passwordHash string) (*models.User, error) {
	query := `INSERT INTO users (full_name, email, password_hash, last_login) VALUES (?, ?, ?, NOW())`
	result, err := r.db.ExecContext(ctx, query, fullName, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return &models.User{
		ID:       id,
		FullName: fullName,
		Email:    email,
		Role:     models.RoleUser,
	}, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE email = ?`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, fullName string, photo *string) error {
	var err error
	if photo != nil {
		_, err = r.db.ExecContext(ctx, `UPDATE users SET full_name = ?, photo = ? WHERE id = ?`, fullName, *photo, id)
	} else {
		_, err = r.db.ExecContext(ctx, `UPDATE users SET full_name = ? WHERE id = ?`, fullName, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = NOW() WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// AddSupercoins credits the balance with an atomic in-place increment so
// concurrent credits from unrelated actions never lose updates.
func (r *userRepository) AddSupercoins(ctx context.Context, id int64, delta int) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET supercoins = supercoins + ? WHERE id = ?`, delta, id); err != nil {
		return fmt.Errorf("failed to add supercoins: %w", err)
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
