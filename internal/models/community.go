package models

import (
	"time"
)

type Community struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;unique" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CommunityMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommunityID uint      `gorm:"not null;uniqueIndex:idx_community_member" json:"community_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_community_member" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CreatedAt   time.Time `json:"created_at"`
}
