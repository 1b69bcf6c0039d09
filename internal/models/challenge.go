package models

import (
	"time"
)

// Challenge action type constants. These name the user actions that can
// move challenge progress forward.
const (
	ChallengeActionUpvote   = "upvote"
	ChallengeActionAnswer   = "answer"
	ChallengeActionQuestion = "question"
	ChallengeActionVotePoll = "vote_poll"
	ChallengeActionComment  = "comment"
)

type Challenge struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Type            string    `gorm:"size:20;not null;index" json:"type"`
	Name            string    `gorm:"not null" json:"name"`
	ActionAmount    int       `gorm:"not null" json:"action_amount"`
	Reward          string    `gorm:"size:50;not null" json:"reward"` // title unlocked on completion
	HoursToComplete *int      `json:"hours_to_complete"`              // nil means untimed
	CreatedAt       time.Time `json:"created_at"`
}

// UserChallenge tracks one user's run at one challenge. Created lazily
// on the first qualifying action.
type UserChallenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`
	Challenge   Challenge `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"challenge"`
	CreatedAt   time.Time `json:"created_at"`

	// Filled by queries, not stored
	Actions []ChallengeAction `json:"actions"`
}

// ChallengeAction is one qualifying action: a timestamp in the progress
// sequence. For timed challenges only rows inside the sliding window
// count; older ones are pruned.
type ChallengeAction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserChallengeID uint      `gorm:"not null;index" json:"user_challenge_id"`
	OccurredAt      time.Time `gorm:"not null;index" json:"occurred_at"`
}
