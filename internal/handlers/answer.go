package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/thesurvey/api/internal/services"
)

type AnswerHandler struct {
	answerService services.AnsweredQuestionService
}

func NewAnswerHandler(answerService services.AnsweredQuestionService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

func (ah *AnswerHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}
	result, err := ah.answerService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}
