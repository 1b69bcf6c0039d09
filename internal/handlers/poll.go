package handlers

import (
	"net/http"
	"time"

	"askhive/internal/db"
	"askhive/internal/models"
	"askhive/internal/services"
	"askhive/internal/utils"

	"github.com/gin-gonic/gin"
)

type PollHandler struct{}

func NewPollHandler() *PollHandler {
	return &PollHandler{}
}

type createPollRequest struct {
	Title       string    `json:"title" binding:"required"`
	Options     []string  `json:"options" binding:"required,min=2"`
	CommunityID uint      `json:"community_id"`
	DueDate     time.Time `json:"due_date" binding:"required"`
}

func (h *PollHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req createPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.CommunityID == 0 {
		req.CommunityID = 1
	}
	now := time.Now()
	if !req.DueDate.After(now) {
		Fail(c, http.StatusBadRequest, "due date must be in the future")
		return
	}

	poll := models.Poll{
		UserID:      user.ID,
		CommunityID: req.CommunityID,
		Title:       req.Title,
		DueDate:     req.DueDate,
		CreatedAt:   now,
	}
	for i, text := range req.Options {
		poll.Options = append(poll.Options, models.PollOption{Text: text, Position: i})
	}
	if err := db.DB.Create(&poll).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "could not create poll")
		return
	}

	services.NotifyAsync(poll.ID, models.NotificationTypeNewPoll, now)

	OK(c, poll)
}

func (h *PollHandler) Detail(c *gin.Context) {
	poll, err := services.GetPoll(utils.StringToUint(c.Param("id")))
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, poll)
}

func (h *PollHandler) List(c *gin.Context) {
	var polls []models.Poll
	query := db.DB.Preload("Options").Order("created_at DESC")
	if c.Query("open") == "true" {
		query = query.Where("is_closed = ?", false)
	}
	if err := query.Find(&polls).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "could not load polls")
		return
	}
	OK(c, polls)
}

// Vote casts the caller's single vote in a poll:
// POST /polls/:id/vote {"option_id": 3}
func (h *PollHandler) Vote(c *gin.Context) {
	user := CurrentUser(c)
	pollID := utils.StringToUint(c.Param("id"))

	var req struct {
		OptionID uint `json:"option_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	poll, err := services.VotePoll(pollID, req.OptionID, user.ID, now)
	if err != nil {
		FailErr(c, err)
		return
	}

	go services.TrackProgress(user.ID, models.ChallengeActionVotePoll, now)

	OK(c, poll)
}

// Sweep closes expired polls on demand; the background sweeper does the
// same on a timer.
func (h *PollHandler) Sweep(c *gin.Context) {
	now := time.Now()
	closed, err := services.CloseExpiredPolls(now)
	if err != nil {
		FailErr(c, err)
		return
	}
	for _, p := range closed {
		services.NotifyAsync(p.ID, models.NotificationTypePollClosed, now)
	}
	OK(c, closed)
}
