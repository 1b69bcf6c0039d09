package handlers

import (
	"errors"
	"net/http"

	"askhive/internal/middleware"
	"askhive/internal/models"
	"askhive/internal/services"

	"github.com/gin-gonic/gin"
)

// JSON helper to keep every response in the same envelope
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// FailErr maps engine error kinds to HTTP statuses uniformly.
func FailErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}

// CurrentUser returns the session user loaded by middleware. Handlers
// behind AuthRequired can rely on it being present.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.CheckUserKey).(*models.User)
}
