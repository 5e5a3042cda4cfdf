package models

import (
	"errors"
	"strings"
	"time"
)

const (
	DifficultyBasic        = "Basic"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"

	ChallengeTypeNormal    = "normal"
	ChallengeTypePlacement = "placement"
)

// ChallengeLanguages are the tags a challenge may be filed under. They are
// broader than the executable languages: AI-ML and DSA challenges exist too.
var ChallengeLanguages = []string{
	"JAVASCRIPT", "PYTHON", "SQL", "C", "C++", "JAVA", "AI-ML", "DSA", "GO", "RUBY",
}

type TestCase struct {
	Input  string `json:"input" db:"input"`
	Output string `json:"output" db:"expected_output"`
}

type Challenge struct {
	ID            int64      `db:"id" json:"id"`
	UserID        int64      `db:"user_id" json:"userId"`
	Language      string     `db:"language" json:"language"`
	Difficulty    string     `db:"difficulty" json:"difficulty"`
	Topic         string     `db:"topic" json:"topic"`
	Question      string     `db:"question" json:"question"`
	Answer        *string    `db:"answer" json:"answer,omitempty"`
	ChallengeType string     `db:"challenge_type" json:"challengeType"`
	Supercoins    int        `db:"supercoins" json:"supercoins"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	TestCases     []TestCase `db:"-" json:"testCases"`
	Steps         []string   `db:"-" json:"steps"`
}

// RewardForDifficulty maps a difficulty to its fixed supercoin value.
// The reward is decided at creation time and never recomputed.
func RewardForDifficulty(difficulty string) int {
	switch strings.ToLower(difficulty) {
	case "basic":
		return 3
	case "intermediate":
		return 5
	case "advanced":
		return 7
	default:
		return 0
	}
}

// NormalizeDifficulty returns the canonical Title-case form ("basic" -> "Basic").
func NormalizeDifficulty(raw string) string {
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

type SubmitChallengeRequest struct {
	Language      string     `json:"language" binding:"required"`
	Difficulty    string     `json:"difficulty" binding:"required"`
	Topic         string     `json:"topic" binding:"required"`
	Question      string     `json:"question" binding:"required"`
	TestCases     []TestCase `json:"testCases" binding:"required"`
	Steps         []string   `json:"steps" binding:"required"`
	Answer        string     `json:"answer"`
	ChallengeType string     `json:"challengeType"`
}

func (r *SubmitChallengeRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" || strings.TrimSpace(r.Question) == "" {
		return errors.New("topic and question are required")
	}
	if len(r.TestCases) == 0 {
		return errors.New("at least one test case is required")
	}
	for _, tc := range r.TestCases {
		if strings.TrimSpace(tc.Output) == "" {
			return errors.New("every test case needs an expected output")
		}
	}
	if len(r.Steps) == 0 {
		return errors.New("at least one procedure step is required")
	}

	difficulty := NormalizeDifficulty(r.Difficulty)
	if difficulty != DifficultyBasic && difficulty != DifficultyIntermediate && difficulty != DifficultyAdvanced {
		return errors.New("difficulty must be Basic, Intermediate or Advanced")
	}

	language := strings.ToUpper(r.Language)
	for _, l := range ChallengeLanguages {
		if l == language {
			return nil
		}
	}
	return errors.New("unknown challenge language")
}

func (r *SubmitChallengeRequest) NormalizedType() string {
	if r.ChallengeType == ChallengeTypePlacement {
		return ChallengeTypePlacement
	}
	return ChallengeTypeNormal
}
