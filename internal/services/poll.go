package services

import (
	"log"
	"time"

	"askhive/internal/db"
	"askhive/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VotePoll records one user's vote on one option of a poll.
//
// A poll takes no votes once closed; closure is computed against the
// due date at call time, not just the stored flag, so an overdue poll
// the sweeper has not reached yet still rejects votes. One vote per
// user per poll across all options, enforced by the (poll_id, user_id)
// unique index: the insert itself is the already-voted check, there is
// no separate read that two concurrent votes could race past.
func VotePoll(pollID, optionID, userID uint, now time.Time) (*models.Poll, error) {
	var poll models.Poll
	if err := db.DB.First(&poll, pollID).Error; err != nil {
		return nil, pollLookupErr(pollID, err)
	}

	var option models.PollOption
	if err := db.DB.Where("id = ? AND poll_id = ?", optionID, pollID).First(&option).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("poll option", optionID)
		}
		return nil, persistence("load poll option", err)
	}

	if poll.IsClosed || !poll.DueDate.After(now) {
		return nil, conflict("poll is closed")
	}

	vote := models.PollVote{
		PollID:    pollID,
		OptionID:  optionID,
		UserID:    userID,
		CreatedAt: now,
	}
	res := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&vote)
	if res.Error != nil {
		return nil, persistence("record poll vote", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflict("user already voted in this poll")
	}

	return GetPoll(pollID)
}

// GetPoll loads a poll with its options and their votes populated.
func GetPoll(pollID uint) (*models.Poll, error) {
	var poll models.Poll
	err := db.DB.Preload("Options", func(g *gorm.DB) *gorm.DB {
		return g.Order("position ASC, id ASC")
	}).Preload("Options.Votes").First(&poll, pollID).Error
	if err != nil {
		return nil, pollLookupErr(pollID, err)
	}
	return &poll, nil
}

// CloseExpiredPolls flips every overdue open poll to closed and returns
// them with options populated. The flip is a set, never a toggle, and
// each poll is claimed with a conditional update, so a poll shows up in
// at most one sweep's output even when sweeps overlap. Callers fan out
// a poll-closed notification per returned poll.
func CloseExpiredPolls(now time.Time) ([]models.Poll, error) {
	var due []models.Poll
	if err := db.DB.Where("due_date <= ? AND is_closed = ?", now, false).Find(&due).Error; err != nil {
		return nil, persistence("find expired polls", err)
	}

	var closedIDs []uint
	for _, p := range due {
		res := db.DB.Model(&models.Poll{}).
			Where("id = ? AND is_closed = ?", p.ID, false).
			Update("is_closed", true)
		if res.Error != nil {
			return nil, persistence("close expired poll", res.Error)
		}
		if res.RowsAffected > 0 {
			closedIDs = append(closedIDs, p.ID)
		}
	}
	if len(closedIDs) == 0 {
		return nil, nil
	}

	var closed []models.Poll
	err := db.DB.Preload("Options", func(g *gorm.DB) *gorm.DB {
		return g.Order("position ASC, id ASC")
	}).Preload("Options.Votes").
		Where("id IN ?", closedIDs).
		Find(&closed).Error
	if err != nil {
		return nil, persistence("reload closed polls", err)
	}
	return closed, nil
}

// PollSweeper periodically closes expired polls and fans out the
// poll-closed notification for each.
type PollSweeper struct {
	interval time.Duration
	stop     chan struct{}
}

func NewPollSweeper(interval time.Duration) *PollSweeper {
	return &PollSweeper{interval: interval, stop: make(chan struct{})}
}

// Start launches the background sweep loop.
func (s *PollSweeper) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(time.Now())
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *PollSweeper) Stop() {
	close(s.stop)
}

func (s *PollSweeper) sweep(now time.Time) {
	closed, err := CloseExpiredPolls(now)
	if err != nil {
		log.Printf("Poll sweep failed: %v", err)
		return
	}
	for _, p := range closed {
		if _, err := Notify(p.ID, models.NotificationTypePollClosed, now); err != nil {
			log.Printf("Poll %d closed but fan-out failed: %v", p.ID, err)
		}
	}
	if len(closed) > 0 {
		log.Printf("Closed %d expired polls", len(closed))
	}
}
