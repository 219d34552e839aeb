package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/thesurvey/api/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profile, err := uh.userService.Profile(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, profile)
}

func (uh *UserHandler) GetPointHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	history, err := uh.userService.PointHistory(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"point_history": history})
}
