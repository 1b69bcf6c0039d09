package models

import (
	"time"
)

type Question struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"` // asker
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CommunityID uint      `gorm:"not null;index;default:1" json:"community_id"`
	Community   Community `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"community"`
	Title       string    `gorm:"not null" json:"title"`
	Text        string    `gorm:"type:text" json:"text"`
	Tags        []Tag     `gorm:"many2many:question_tags;" json:"tags"`
	Answers     []Answer  `json:"answers"`
	CreatedAt   time.Time `json:"created_at"` // ask time
	UpdatedAt   time.Time `json:"updated_at"`

	// Filled by queries, not stored
	ViewCount     int64 `gorm:"-" json:"view_count"`
	UpvoteCount   int64 `gorm:"-" json:"upvote_count"`
	DownvoteCount int64 `gorm:"-" json:"downvote_count"`
}

type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"` // answerer
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Comment belongs to a question or to an answer, never both.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID *uint     `gorm:"index" json:"question_id"`
	AnswerID   *uint     `gorm:"index" json:"answer_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionVote holds one user's vote on one question. Value is 1 or -1.
// The unique index is what keeps a user out of both camps at once: there
// is only one row to flip.
type QuestionVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_question_vote" json:"question_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_question_vote" json:"user_id"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionView is a set membership row: this user has seen this question.
type QuestionView struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_question_view" json:"question_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_question_view" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionSubscription marks a user as following a question's answers.
type QuestionSubscription struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_question_sub" json:"question_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_question_sub" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
