package handlers

import (
	"askhive/internal/services"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct{}

func NewChallengeHandler() *ChallengeHandler {
	return &ChallengeHandler{}
}

func (h *ChallengeHandler) List(c *gin.Context) {
	challenges, err := services.ListChallenges()
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, challenges)
}

// Progress lists the caller's challenge runs with their action
// timestamps so clients can show live counts.
func (h *ChallengeHandler) Progress(c *gin.Context) {
	user := CurrentUser(c)

	runs, err := services.UserProgress(user.ID)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, runs)
}
