package services

import (
	"fmt"
	"testing"
	"time"

	"askhive/internal/db"
	"askhive/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-global connection at a fresh in-memory
// sqlite database so service functions run unchanged under test.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(g))
	db.DB = g
}

func createUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func createCommunity(t *testing.T, name string, memberIDs ...uint) models.Community {
	t.Helper()
	community := models.Community{Name: name}
	require.NoError(t, db.DB.Create(&community).Error)
	for _, id := range memberIDs {
		m := models.CommunityMember{CommunityID: community.ID, UserID: id}
		require.NoError(t, db.DB.Create(&m).Error)
	}
	return community
}

func createQuestion(t *testing.T, askerID, communityID uint, title string, at time.Time) models.Question {
	t.Helper()
	q := models.Question{
		UserID:      askerID,
		CommunityID: communityID,
		Title:       title,
		Text:        "body of " + title,
		CreatedAt:   at,
	}
	require.NoError(t, db.DB.Create(&q).Error)
	return q
}

func createPoll(t *testing.T, creatorID, communityID uint, due time.Time, optionTexts ...string) models.Poll {
	t.Helper()
	poll := models.Poll{
		UserID:      creatorID,
		CommunityID: communityID,
		Title:       "poll",
		DueDate:     due,
	}
	for i, text := range optionTexts {
		poll.Options = append(poll.Options, models.PollOption{Text: text, Position: i})
	}
	require.NoError(t, db.DB.Create(&poll).Error)
	return poll
}

func inboxCount(t *testing.T, userID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND suppressed = ?", userID, false).
		Count(&count).Error)
	return count
}
