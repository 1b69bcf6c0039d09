package handlers

import (
	"net/http"
	"time"

	"askhive/internal/middleware"
	"askhive/internal/models"
	"askhive/internal/services"
	"askhive/internal/utils"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct{}

func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{}
}

// List serves the ranked, filtered feed:
// GET /questions?order=active&q=[go] generics
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := services.LoadQuestions()
	if err != nil {
		FailErr(c, err)
		return
	}

	if q := c.Query("q"); q != "" {
		tags, keywords := services.ParseSearch(q)
		questions = services.FilterQuestions(questions, tags, keywords)
	}

	order := services.Order(c.DefaultQuery("order", string(services.OrderNewest)))
	OK(c, services.RankQuestions(questions, order))
}

func (h *QuestionHandler) Detail(c *gin.Context) {
	question, err := services.GetQuestion(utils.StringToUint(c.Param("id")))
	if err != nil {
		FailErr(c, err)
		return
	}

	// A logged-in viewer joins the question's viewed-by set.
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		_ = services.RecordView(question.ID, user.(*models.User).ID)
	}

	OK(c, gin.H{
		"question":  question,
		"text_html": utils.RenderMarkdown(question.Text),
	})
}

type createQuestionRequest struct {
	Title       string   `json:"title" binding:"required"`
	Text        string   `json:"text" binding:"required"`
	CommunityID uint     `json:"community_id"`
	Tags        []string `json:"tags"`
}

func (h *QuestionHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.CommunityID == 0 {
		req.CommunityID = 1
	}

	now := time.Now()
	question, err := services.CreateQuestion(user.ID, req.CommunityID, req.Title, req.Text, req.Tags, now)
	if err != nil {
		FailErr(c, err)
		return
	}

	services.NotifyAsync(question.ID, models.NotificationTypeNewQuestion, now)
	go services.TrackProgress(user.ID, models.ChallengeActionQuestion, now)

	OK(c, question)
}

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *QuestionHandler) CreateAnswer(c *gin.Context) {
	user := CurrentUser(c)
	questionID := utils.StringToUint(c.Param("id"))

	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	answer, err := services.AddAnswer(questionID, user.ID, req.Text, now)
	if err != nil {
		FailErr(c, err)
		return
	}

	services.NotifyAsync(questionID, models.NotificationTypeAnswer, now)
	go services.TrackProgress(user.ID, models.ChallengeActionAnswer, now)

	OK(c, answer)
}

func (h *QuestionHandler) CreateComment(c *gin.Context) {
	user := CurrentUser(c)
	questionID := utils.StringToUint(c.Param("id"))

	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	comment, err := services.AddQuestionComment(questionID, user.ID, req.Text, now)
	if err != nil {
		FailErr(c, err)
		return
	}

	services.NotifyAsync(questionID, models.NotificationTypeComment, now)
	go services.TrackProgress(user.ID, models.ChallengeActionComment, now)

	OK(c, comment)
}

func (h *QuestionHandler) CreateAnswerComment(c *gin.Context) {
	user := CurrentUser(c)
	answerID := utils.StringToUint(c.Param("id"))

	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	comment, err := services.AddAnswerComment(answerID, user.ID, req.Text, now)
	if err != nil {
		FailErr(c, err)
		return
	}

	services.NotifyAsync(answerID, models.NotificationTypeAnswerComment, now)
	go services.TrackProgress(user.ID, models.ChallengeActionComment, now)

	OK(c, comment)
}

// Vote toggles an upvote or downvote:
// POST /questions/:id/vote {"value": 1}
func (h *QuestionHandler) Vote(c *gin.Context) {
	user := CurrentUser(c)
	questionID := utils.StringToUint(c.Param("id"))

	var req struct {
		Value int `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	up, down, askerID, err := services.ToggleQuestionVote(questionID, user.ID, req.Value, now)
	if err != nil {
		FailErr(c, err)
		return
	}

	if req.Value == 1 {
		// The asker hears about upvotes from others, not their own.
		if askerID != user.ID {
			services.NotifyAsync(questionID, models.NotificationTypeUpvote, now)
		}
		go services.TrackProgress(user.ID, models.ChallengeActionUpvote, now)
	}

	OK(c, gin.H{"upvotes": up, "downvotes": down})
}

func (h *QuestionHandler) Subscribe(c *gin.Context) {
	user := CurrentUser(c)
	if err := services.Subscribe(utils.StringToUint(c.Param("id")), user.ID); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, nil)
}

func (h *QuestionHandler) Unsubscribe(c *gin.Context) {
	user := CurrentUser(c)
	if err := services.Unsubscribe(utils.StringToUint(c.Param("id")), user.ID); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, nil)
}
