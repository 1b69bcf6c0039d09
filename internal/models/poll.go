package models

import (
	"time"
)

type Poll struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"not null;index" json:"user_id"` // creator
	User        User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CommunityID uint         `gorm:"not null;index;default:1" json:"community_id"`
	Title       string       `gorm:"not null" json:"title"`
	Options     []PollOption `json:"options"`
	DueDate     time.Time    `gorm:"not null;index" json:"due_date"`
	IsClosed    bool         `gorm:"default:false;index" json:"is_closed"` // only ever flips false -> true
	CreatedAt   time.Time    `json:"created_at"`
}

type PollOption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;index" json:"poll_id"`
	Text      string    `gorm:"not null" json:"text"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`

	// Filled by queries, not stored
	Votes []PollVote `gorm:"foreignKey:OptionID" json:"votes"`
}

// PollVote is unique per (poll, user), not per (option, user): the index
// is what guarantees one vote per poll across all options, so "already
// voted anywhere in this poll" is checked by the insert itself rather
// than a separate read.
type PollVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote" json:"poll_id"`
	OptionID  uint      `gorm:"not null;index" json:"option_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
