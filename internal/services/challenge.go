package services

import (
	"log"
	"time"

	"askhive/internal/db"
	"askhive/internal/models"

	"gorm.io/gorm"
)

// IncrementProgress records one qualifying action for every active
// challenge of the given type the user is running, creating runs lazily
// for challenges they have not started. Timed challenges count actions
// in a sliding window: entries older than now minus the challenge's
// window are pruned first, all against the same cutoff, so an action
// taken long ago falls off instead of counting forever.
//
// A run whose count lands exactly on the target unlocks the challenge
// reward as a title on the user and fans out a reward notification.
// Completed runs take no further progress.
//
// All reads and decisions happen before the first write; the writes
// themselves share one transaction, so a failure leaves no half-saved
// progress.
func IncrementProgress(userID uint, challengeType string, now time.Time) ([]models.UserChallenge, error) {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("user", userID)
		}
		return nil, persistence("load user", err)
	}

	var runs []models.UserChallenge
	err := db.DB.Preload("Challenge").
		Preload("Actions", func(g *gorm.DB) *gorm.DB {
			return g.Order("occurred_at ASC, id ASC")
		}).
		Where("user_id = ?", userID).
		Find(&runs).Error
	if err != nil {
		return nil, persistence("load user challenges", err)
	}

	// Runs of the matching type that are still under target. A run at
	// target is complete and never mutated again, even if its window
	// entries have since gone stale.
	started := make(map[uint]bool, len(runs))
	var active []models.UserChallenge
	for _, run := range runs {
		started[run.ChallengeID] = true
		if run.Challenge.Type != challengeType {
			continue
		}
		if len(run.Actions) < run.Challenge.ActionAmount {
			active = append(active, run)
		}
	}

	// Challenges of this type the user has never acted on yet.
	var definitions []models.Challenge
	if err := db.DB.Where("type = ?", challengeType).Find(&definitions).Error; err != nil {
		return nil, persistence("load challenge definitions", err)
	}
	var fresh []models.Challenge
	for _, def := range definitions {
		if !started[def.ID] {
			fresh = append(fresh, def)
		}
	}

	type update struct {
		run      *models.UserChallenge
		pruneIDs []uint
		kept     []models.ChallengeAction
	}
	updates := make([]update, 0, len(active)+len(fresh))
	for i := range active {
		run := &active[i]
		up := update{run: run, kept: run.Actions}
		if run.Challenge.HoursToComplete != nil {
			cutoff := now.Add(-time.Duration(*run.Challenge.HoursToComplete) * time.Hour)
			up.kept = nil
			for _, a := range run.Actions {
				if a.OccurredAt.Before(cutoff) {
					up.pruneIDs = append(up.pruneIDs, a.ID)
				} else {
					up.kept = append(up.kept, a)
				}
			}
		}
		updates = append(updates, up)
	}

	var completedRewards []string
	var out []models.UserChallenge
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		for _, def := range fresh {
			run := models.UserChallenge{UserID: userID, ChallengeID: def.ID, Challenge: def, CreatedAt: now}
			if err := tx.Omit("Challenge").Create(&run).Error; err != nil {
				return persistence("create user challenge", err)
			}
			updates = append(updates, update{run: &run})
		}

		for i := range updates {
			up := &updates[i]
			if len(up.pruneIDs) > 0 {
				if err := tx.Where("id IN ?", up.pruneIDs).Delete(&models.ChallengeAction{}).Error; err != nil {
					return persistence("prune challenge actions", err)
				}
			}

			action := models.ChallengeAction{UserChallengeID: up.run.ID, OccurredAt: now}
			if err := tx.Create(&action).Error; err != nil {
				return persistence("record challenge action", err)
			}
			up.run.Actions = append(up.kept, action)

			if len(up.run.Actions) == up.run.Challenge.ActionAmount {
				reward := models.UserReward{
					UserID: userID,
					Kind:   models.RewardKindTitle,
					Name:   up.run.Challenge.Reward,
				}
				// Idempotent: the unique index swallows re-unlocks.
				if err := tx.Where(models.UserReward{
					UserID: reward.UserID, Kind: reward.Kind, Name: reward.Name,
				}).FirstOrCreate(&reward).Error; err != nil {
					return persistence("unlock reward", err)
				}
				completedRewards = append(completedRewards, up.run.Challenge.Reward)
			}
			out = append(out, *up.run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reward fan-out happens after commit: the unlock must not be lost
	// because a notification insert failed.
	for range completedRewards {
		if _, err := Notify(userID, models.NotificationTypeNewReward, now); err != nil {
			log.Printf("Reward unlocked but notification fan-out failed for user %d: %v", userID, err)
		}
	}

	return out, nil
}

// TrackProgress is the fire-and-forget wrapper mutation handlers use so
// a challenge bookkeeping failure never fails the triggering request.
func TrackProgress(userID uint, challengeType string, now time.Time) {
	if _, err := IncrementProgress(userID, challengeType, now); err != nil {
		log.Printf("Challenge progress for user %d action %q failed: %v", userID, challengeType, err)
	}
}

// ListChallenges returns every challenge definition.
func ListChallenges() ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := db.DB.Order("id ASC").Find(&challenges).Error; err != nil {
		return nil, persistence("load challenges", err)
	}
	return challenges, nil
}

// UserProgress returns the user's challenge runs with definitions and
// action timestamps populated.
func UserProgress(userID uint) ([]models.UserChallenge, error) {
	var runs []models.UserChallenge
	err := db.DB.Preload("Challenge").
		Preload("Actions", func(g *gorm.DB) *gorm.DB {
			return g.Order("occurred_at ASC, id ASC")
		}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&runs).Error
	if err != nil {
		return nil, persistence("load user progress", err)
	}
	return runs, nil
}
