package handlers

import (
	"net/http"

	"askhive/internal/db"
	"askhive/internal/models"
	"askhive/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type CommunityHandler struct{}

func NewCommunityHandler() *CommunityHandler {
	return &CommunityHandler{}
}

func (h *CommunityHandler) List(c *gin.Context) {
	var communities []models.Community
	if err := db.DB.Order("name ASC").Find(&communities).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "could not load communities")
		return
	}
	OK(c, communities)
}

func (h *CommunityHandler) Join(c *gin.Context) {
	user := CurrentUser(c)
	communityID := utils.StringToUint(c.Param("id"))

	var community models.Community
	if err := db.DB.First(&community, communityID).Error; err != nil {
		Fail(c, http.StatusNotFound, "community not found")
		return
	}

	member := models.CommunityMember{CommunityID: communityID, UserID: user.ID}
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&member).Error
	if err != nil {
		Fail(c, http.StatusInternalServerError, "could not join community")
		return
	}
	OK(c, nil)
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	user := CurrentUser(c)
	err := db.DB.Where("community_id = ? AND user_id = ?", utils.StringToUint(c.Param("id")), user.ID).
		Delete(&models.CommunityMember{}).Error
	if err != nil {
		Fail(c, http.StatusInternalServerError, "could not leave community")
		return
	}
	OK(c, nil)
}
