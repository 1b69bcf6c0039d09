package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeAnswer        NotificationType = "answer"
	NotificationTypeComment       NotificationType = "comment"
	NotificationTypeAnswerComment NotificationType = "answer_comment"
	NotificationTypeUpvote        NotificationType = "upvote"
	NotificationTypeNewQuestion   NotificationType = "new_question"
	NotificationTypeNewPoll       NotificationType = "new_poll"
	NotificationTypePollClosed    NotificationType = "poll_closed"
	NotificationTypeNewArticle    NotificationType = "new_article"
	NotificationTypeArticleUpdate NotificationType = "article_update"
	NotificationTypeNewReward     NotificationType = "new_reward"
)

// NotificationTypes lists every known type, in one place, so code that
// must cover the whole enum (recipient resolution, preference toggles)
// can range over it instead of hard-coding a subset.
var NotificationTypes = []NotificationType{
	NotificationTypeAnswer,
	NotificationTypeComment,
	NotificationTypeAnswerComment,
	NotificationTypeUpvote,
	NotificationTypeNewQuestion,
	NotificationTypeNewPoll,
	NotificationTypePollClosed,
	NotificationTypeNewArticle,
	NotificationTypeArticleUpdate,
	NotificationTypeNewReward,
}

// Notification is immutable once created except for IsRead.
//
// Suppressed mirrors the upstream behavior for blocked types: the record
// is still created for the recipient but never shows up in their inbox.
// Inbox queries must filter on suppressed = false.
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"` // recipient
	User       User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Type       NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	QuestionID *uint            `gorm:"index" json:"question_id"`
	PollID     *uint            `gorm:"index" json:"poll_id"`
	ArticleID  *uint            `gorm:"index" json:"article_id"`
	IsRead     bool             `gorm:"default:false;index" json:"is_read"`
	Suppressed bool             `gorm:"default:false;index" json:"suppressed"`
	CreatedAt  time.Time        `json:"created_at"`
}
