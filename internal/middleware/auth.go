package middleware

import (
	"net/http"

	"askhive/internal/db"
	"askhive/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const UnreadCountKey = "unread_count"

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)

				// Fetch unread inbox count
				var count int64
				db.DB.Model(&models.Notification{}).
					Where("user_id = ? AND is_read = ? AND suppressed = ?", user.ID, false, false).
					Count(&count)
				c.Set(UnreadCountKey, count)
			}
		}
		c.Next()
	}
}
