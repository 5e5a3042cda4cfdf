package models

import (
	"errors"
	"strings"
	"time"
)

// Attempt is one finished mock-test session. Attempts are immutable once
// recorded; history and leaderboards are derived from them.
type Attempt struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"userId"`
	UserName     string    `db:"user_name" json:"userName"`
	Company      string    `db:"company" json:"company"`
	QuizCorrect  int       `db:"quiz_correct" json:"quizCorrect"`
	QuizTotal    int       `db:"quiz_total" json:"quizTotal"`
	CodingPts    int       `db:"coding_pts" json:"codingPts"`
	Total        int       `db:"total" json:"total"`
	TimeTakenSec *int      `db:"time_taken_sec" json:"timeTakenSec,omitempty"`
	DurationSec  *int      `db:"duration_sec" json:"durationSec,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type AttemptRequest struct {
	Company      string `json:"company"`
	QuizCorrect  *int   `json:"quizCorrect"`
	QuizTotal    *int   `json:"quizTotal"`
	CodingPts    *int   `json:"codingPts"`
	Total        *int   `json:"total"`
	TimeTakenSec *int   `json:"timeTakenSec"`
	DurationSec  *int   `json:"durationSec"`
}

func (r *AttemptRequest) Validate() error {
	if strings.TrimSpace(r.Company) == "" {
		return errors.New("company is required")
	}
	if r.QuizCorrect == nil || r.QuizTotal == nil || r.CodingPts == nil || r.Total == nil {
		return errors.New("quizCorrect, quizTotal, codingPts and total are required")
	}
	if *r.QuizCorrect < 0 || *r.QuizTotal < 0 || *r.CodingPts < 0 || *r.Total < 0 {
		return errors.New("scores cannot be negative")
	}
	return nil
}

// LeaderboardEntry is one aggregated row of the mock-test leaderboard.
// TotalScore is cumulative across all matching attempts, not best-of.
type LeaderboardEntry struct {
	UserID        int64     `db:"user_id" json:"userId"`
	UserName      string    `db:"user_name" json:"userName"`
	TotalScore    int       `db:"total_score" json:"totalScore"`
	BestScore     int       `db:"best_score" json:"bestScore"`
	BestTime      *int      `db:"best_time" json:"bestTime,omitempty"`
	LastAttemptAt time.Time `db:"last_attempt_at" json:"lastAttemptAt"`
	FullName      *string   `db:"full_name" json:"fullName,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	Photo         *string   `db:"photo" json:"photo,omitempty"`
}
