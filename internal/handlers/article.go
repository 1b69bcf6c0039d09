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

type ArticleHandler struct{}

func NewArticleHandler() *ArticleHandler {
	return &ArticleHandler{}
}

type articleRequest struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content" binding:"required"`
	CommunityID uint   `json:"community_id"`
}

func (h *ArticleHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.CommunityID == 0 {
		req.CommunityID = 1
	}

	now := time.Now()
	article := models.Article{
		UserID:      user.ID,
		CommunityID: req.CommunityID,
		Title:       req.Title,
		Content:     req.Content,
		CreatedAt:   now,
	}
	if err := db.DB.Create(&article).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "could not create article")
		return
	}

	services.NotifyAsync(article.ID, models.NotificationTypeNewArticle, now)

	OK(c, article)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	articleID := utils.StringToUint(c.Param("id"))

	var article models.Article
	if err := db.DB.First(&article, articleID).Error; err != nil {
		Fail(c, http.StatusNotFound, "article not found")
		return
	}
	if article.UserID != user.ID {
		Fail(c, http.StatusForbidden, "not your article")
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	article.Title = req.Title
	article.Content = req.Content
	if err := db.DB.Model(&article).Updates(map[string]interface{}{
		"title":   req.Title,
		"content": req.Content,
	}).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "could not update article")
		return
	}

	services.NotifyAsync(article.ID, models.NotificationTypeArticleUpdate, now)

	OK(c, article)
}

func (h *ArticleHandler) Detail(c *gin.Context) {
	var article models.Article
	if err := db.DB.First(&article, utils.StringToUint(c.Param("id"))).Error; err != nil {
		Fail(c, http.StatusNotFound, "article not found")
		return
	}
	OK(c, gin.H{
		"article":      article,
		"content_html": utils.RenderMarkdown(article.Content),
	})
}
