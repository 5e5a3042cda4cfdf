package models

import "time"

const NotificationTypeChallengeSubmission = "challenge_submission"

type Notification struct {
	ID          int64     `db:"id" json:"id"`
	Message     string    `db:"message" json:"message"`
	CreatedBy   int64     `db:"created_by" json:"createdBy"`
	ChallengeID *int64    `db:"challenge_id" json:"challengeId,omitempty"`
	Type        string    `db:"type" json:"type"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	// Seen is computed for the requesting user; it is not a stored column.
	Seen bool `db:"seen" json:"seen"`
}
