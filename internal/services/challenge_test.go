package services

import (
	"testing"
	"time"

	"askhive/internal/db"
	"askhive/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createChallenge(t *testing.T, ctype string, amount int, reward string, hours *int) models.Challenge {
	t.Helper()
	ch := models.Challenge{
		Type:            ctype,
		Name:            reward,
		ActionAmount:    amount,
		Reward:          reward,
		HoursToComplete: hours,
	}
	require.NoError(t, db.DB.Create(&ch).Error)
	return ch
}

func hoursPtr(h int) *int { return &h }

func TestIncrementProgressBootstrap(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	alice := createUser(t, "alice")
	ch := createChallenge(t, models.ChallengeActionUpvote, 3, "Curator", nil)

	runs, err := IncrementProgress(alice.ID, models.ChallengeActionUpvote, now)
	require.NoError(t, err)

	// First qualifying action creates the run lazily with one entry.
	require.Len(t, runs, 1)
	assert.Equal(t, ch.ID, runs[0].ChallengeID)
	assert.Equal(t, "Curator", runs[0].Challenge.Reward)
	assert.Len(t, runs[0].Actions, 1)

	// Non-matching action types leave it alone.
	_, err = IncrementProgress(alice.ID, models.ChallengeActionAnswer, now)
	require.NoError(t, err)
	progress, err := UserProgress(alice.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Len(t, progress[0].Actions, 1)
}

func TestIncrementProgressUnknownUser(t *testing.T) {
	setupTestDB(t)
	_, err := IncrementProgress(9999, models.ChallengeActionUpvote, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncrementProgressCompletionUnlocksReward(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	alice := createUser(t, "alice")
	createChallenge(t, models.ChallengeActionAnswer, 2, "Rapid Responder", nil)

	_, err := IncrementProgress(alice.ID, models.ChallengeActionAnswer, now)
	require.NoError(t, err)

	var rewards []models.UserReward
	require.NoError(t, db.DB.Where("user_id = ?", alice.ID).Find(&rewards).Error)
	assert.Empty(t, rewards, "one action of two should not unlock yet")

	runs, err := IncrementProgress(alice.ID, models.ChallengeActionAnswer, now.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Actions, 2)

	require.NoError(t, db.DB.Where("user_id = ?", alice.ID).Find(&rewards).Error)
	require.Len(t, rewards, 1)
	assert.Equal(t, models.RewardKindTitle, rewards[0].Kind)
	assert.Equal(t, "Rapid Responder", rewards[0].Name)

	// Completion fans out a reward notification to the user.
	var count int64
	require.NoError(t, db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", alice.ID, models.NotificationTypeNewReward).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIncrementProgressCompletedRunsStop(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	alice := createUser(t, "alice")
	createChallenge(t, models.ChallengeActionAnswer, 2, "Rapid Responder", nil)

	for i := 0; i < 2; i++ {
		_, err := IncrementProgress(alice.ID, models.ChallengeActionAnswer, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	// Run is complete; a further action does not grow it past target.
	runs, err := IncrementProgress(alice.ID, models.ChallengeActionAnswer, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, runs)

	progress, err := UserProgress(alice.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Len(t, progress[0].Actions, 2)
}

func TestIncrementProgressSlidingWindow(t *testing.T) {
	setupTestDB(t)
	start := time.Now()

	alice := createUser(t, "alice")
	createChallenge(t, models.ChallengeActionUpvote, 3, "Curator", hoursPtr(1))

	// Actions at t=0 and t=20min.
	_, err := IncrementProgress(alice.ID, models.ChallengeActionUpvote, start)
	require.NoError(t, err)
	_, err = IncrementProgress(alice.ID, models.ChallengeActionUpvote, start.Add(20*time.Minute))
	require.NoError(t, err)

	// At t=90min both earlier entries (ages 90min and 70min) have
	// fallen out of the one-hour window: the cutoff is now minus one
	// hour, computed once per call.
	runs, err := IncrementProgress(alice.ID, models.ChallengeActionUpvote, start.Add(90*time.Minute))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Actions, 1, "only the new entry survives")

	// A stale run never completes off old entries: with the window
	// honored, three actions inside an hour are still required.
	var rewards []models.UserReward
	require.NoError(t, db.DB.Where("user_id = ?", alice.ID).Find(&rewards).Error)
	assert.Empty(t, rewards)

	// Three quick actions inside the window do complete it.
	_, err = IncrementProgress(alice.ID, models.ChallengeActionUpvote, start.Add(95*time.Minute))
	require.NoError(t, err)
	runs, err = IncrementProgress(alice.ID, models.ChallengeActionUpvote, start.Add(100*time.Minute))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Actions, 3)

	require.NoError(t, db.DB.Where("user_id = ?", alice.ID).Find(&rewards).Error)
	require.Len(t, rewards, 1)
	assert.Equal(t, "Curator", rewards[0].Name)
}

func TestIncrementProgressWindowCutoff(t *testing.T) {
	setupTestDB(t)
	start := time.Now()

	alice := createUser(t, "alice")
	createChallenge(t, models.ChallengeActionUpvote, 5, "Curator", hoursPtr(1))

	// Entries at t=0, t=30min, t=50min; increment at t=100min. The
	// cutoff is 100-60=40min, so t=0 and t=30min are pruned, t=50min
	// (age 50min) survives, and the new entry joins it.
	for _, offset := range []time.Duration{0, 30 * time.Minute, 50 * time.Minute} {
		_, err := IncrementProgress(alice.ID, models.ChallengeActionUpvote, start.Add(offset))
		require.NoError(t, err)
	}

	runs, err := IncrementProgress(alice.ID, models.ChallengeActionUpvote, start.Add(100*time.Minute))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Actions, 2)

	// Pruned rows are really gone from storage, not just uncounted.
	var actionCount int64
	require.NoError(t, db.DB.Model(&models.ChallengeAction{}).
		Where("user_challenge_id = ?", runs[0].ID).Count(&actionCount).Error)
	assert.Equal(t, int64(2), actionCount)
}

func TestIncrementProgressMultipleChallengesSameType(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	alice := createUser(t, "alice")
	createChallenge(t, models.ChallengeActionUpvote, 2, "Curator", nil)
	createChallenge(t, models.ChallengeActionUpvote, 5, "Super Curator", nil)

	runs, err := IncrementProgress(alice.ID, models.ChallengeActionUpvote, now)
	require.NoError(t, err)
	assert.Len(t, runs, 2, "one action advances every matching challenge")

	runs, err = IncrementProgress(alice.ID, models.ChallengeActionUpvote, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	// The 2-target challenge completed; only the 5-target one keeps
	// taking progress.
	runs, err = IncrementProgress(alice.ID, models.ChallengeActionUpvote, now.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Super Curator", runs[0].Challenge.Reward)

	var rewards []models.UserReward
	require.NoError(t, db.DB.Where("user_id = ?", alice.ID).Find(&rewards).Error)
	require.Len(t, rewards, 1)
	assert.Equal(t, "Curator", rewards[0].Name)
}
