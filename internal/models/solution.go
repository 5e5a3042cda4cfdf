package models

import "time"

// TestCaseResult is one entry of a graded run, in test-case order.
type TestCaseResult struct {
	Input          string `json:"input" db:"input"`
	ExpectedOutput string `json:"expectedOutput" db:"expected_output"`
	ActualOutput   string `json:"actualOutput" db:"actual_output"`
	Passed         bool   `json:"passed" db:"passed"`
}

type Solution struct {
	ID          int64            `db:"id" json:"id"`
	ChallengeID int64            `db:"challenge_id" json:"challengeId"`
	UserID      int64            `db:"user_id" json:"userId"`
	Code        string           `db:"code" json:"code"`
	Supercoins  int              `db:"supercoins" json:"supercoins"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	Results     []TestCaseResult `db:"-" json:"results"`
}

type CompileRequest struct {
	Language    string `json:"language" binding:"required"`
	Code        string `json:"code" binding:"required"`
	ChallengeID int64  `json:"challengeId" binding:"required"`
	UserID      int64  `json:"userId" binding:"required"`
}

type SandboxRequest struct {
	Language  string     `json:"language" binding:"required"`
	Code      string     `json:"code" binding:"required"`
	TestCases []TestCase `json:"testCases" binding:"required"`
}
