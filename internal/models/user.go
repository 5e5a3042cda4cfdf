package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64     `db:"id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Photo        *string   `db:"photo"`
	Supercoins   int       `db:"supercoins"`
	Role         string    `db:"role"`
	LastLogin    time.Time `db:"last_login"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type SignupRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return errors.New("full name cannot be empty")
	}
	if !emailRegex.MatchString(r.Email) {
		return errors.New("invalid email format")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (r *ResetPasswordRequest) Validate() error {
	if !emailRegex.MatchString(r.Email) {
		return errors.New("invalid email format")
	}
	if len(r.NewPassword) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}

// Profile is the public view of a user returned by the profile endpoints.
type Profile struct {
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Photo      *string `json:"photo"`
	Supercoins int     `json:"supercoins"`
}
