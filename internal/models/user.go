package models

import (
	"time"
)

type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"uniqueIndex;not null" json:"username"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"not null" json:"-"` // Hash
	Bio           string    `gorm:"size:200" json:"bio"`
	TotalPoints   int       `gorm:"default:0" json:"total_points"`
	EquippedFrame string    `gorm:"size:50" json:"equipped_frame"`
	EquippedTitle string    `gorm:"size:50" json:"equipped_title"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type RewardKind string

const (
	RewardKindFrame RewardKind = "frame"
	RewardKindTitle RewardKind = "title"
)

// UserReward is one unlocked frame or title. The unique index makes
// unlocking idempotent: re-unlocking the same reward is a no-op insert.
type UserReward struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_user_reward" json:"user_id"`
	Kind      RewardKind `gorm:"size:10;not null;uniqueIndex:idx_user_reward" json:"kind"`
	Name      string     `gorm:"size:50;not null;uniqueIndex:idx_user_reward" json:"name"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationMute records one blocked notification type for a user.
// A row present means the type is blocked.
type NotificationMute struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;uniqueIndex:idx_user_mute" json:"user_id"`
	Type      NotificationType `gorm:"size:20;not null;uniqueIndex:idx_user_mute" json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}
