package handlers

import (
	"net/http"

	"askhive/internal/db"
	"askhive/internal/models"
	"askhive/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile shows a user's public page: points, unlocked rewards and
// their equipped frame and title.
func (h *UserHandler) Profile(c *gin.Context) {
	var user models.User
	if err := db.DB.First(&user, utils.StringToUint(c.Param("id"))).Error; err != nil {
		Fail(c, http.StatusNotFound, "user not found")
		return
	}

	var rewards []models.UserReward
	db.DB.Where("user_id = ?", user.ID).Order("created_at ASC").Find(&rewards)

	OK(c, gin.H{
		"user":    user,
		"rewards": rewards,
	})
}

type equipRequest struct {
	Kind models.RewardKind `json:"kind" binding:"required"`
	Name string            `json:"name" binding:"required"`
}

// Equip sets the caller's displayed frame or title. Only unlocked
// rewards can be equipped.
func (h *UserHandler) Equip(c *gin.Context) {
	user := CurrentUser(c)

	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var reward models.UserReward
	err := db.DB.Where("user_id = ? AND kind = ? AND name = ?", user.ID, req.Kind, req.Name).
		First(&reward).Error
	if err != nil {
		Fail(c, http.StatusNotFound, "reward not unlocked")
		return
	}

	column := "equipped_frame"
	if req.Kind == models.RewardKindTitle {
		column = "equipped_title"
	}
	if err := db.DB.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn(column, req.Name).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "could not equip reward")
		return
	}
	OK(c, nil)
}
