package handlers

import (
	"net/http"

	"askhive/internal/db"
	"askhive/internal/models"
	"askhive/internal/services"
	"askhive/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user := CurrentUser(c)

	notifications, err := services.Inbox(user.ID, 50)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, notifications)
}

func (h *NotificationHandler) Read(c *gin.Context) {
	user := CurrentUser(c)

	if err := services.MarkRead(user.ID, utils.StringToUint(c.Param("id"))); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, nil)
}

func (h *NotificationHandler) ReadAll(c *gin.Context) {
	user := CurrentUser(c)

	if err := services.MarkAllRead(user.ID); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, nil)
}

// Mute blocks a notification type for the caller. Muted types still get
// records created on fan-out but never reach the inbox.
func (h *NotificationHandler) Mute(c *gin.Context) {
	user := CurrentUser(c)
	ntype := models.NotificationType(c.Param("type"))
	if !validNotificationType(ntype) {
		Fail(c, http.StatusBadRequest, "unknown notification type")
		return
	}

	mute := models.NotificationMute{UserID: user.ID, Type: ntype}
	if err := db.DB.Where(mute).FirstOrCreate(&mute).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "could not mute notification type")
		return
	}
	OK(c, nil)
}

func (h *NotificationHandler) Unmute(c *gin.Context) {
	user := CurrentUser(c)
	ntype := models.NotificationType(c.Param("type"))
	if !validNotificationType(ntype) {
		Fail(c, http.StatusBadRequest, "unknown notification type")
		return
	}

	err := db.DB.Where("user_id = ? AND type = ?", user.ID, ntype).
		Delete(&models.NotificationMute{}).Error
	if err != nil {
		Fail(c, http.StatusInternalServerError, "could not unmute notification type")
		return
	}
	OK(c, nil)
}

func validNotificationType(t models.NotificationType) bool {
	for _, known := range models.NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}
