package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/services"
)

type SurveyHandler struct {
	surveyService services.SurveyService
	answerService services.AnsweredQuestionService
}

func NewSurveyHandler(surveyService services.SurveyService, answerService services.AnsweredQuestionService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService, answerService: answerService}
}

func (sh *SurveyHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}
	survey, err := sh.surveyService.Create(c.Request.Context(), userID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, survey)
}

func (sh *SurveyHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	surveyID, err := uuid.Parse(c.Param("surveyId"))
	if err != nil {
		RespondError(c, apperrors.ErrSurveyNotFound)
		return
	}
	survey, err := sh.surveyService.GetByID(c.Request.Context(), userID, surveyID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, survey)
}

func (sh *SurveyHandler) List(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		RespondBadRequest(c, err)
		return
	}
	result, err := sh.surveyService.ListPage(c.Request.Context(), page)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (sh *SurveyHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	surveys, err := sh.surveyService.ListMine(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"surveys": surveys})
}

func (sh *SurveyHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	surveyID, err := uuid.Parse(c.Param("surveyId"))
	if err != nil {
		RespondError(c, apperrors.ErrSurveyNotFound)
		return
	}
	var req services.SurveyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err)
		return
	}
	survey, err := sh.surveyService.Update(c.Request.Context(), userID, surveyID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, survey)
}

func (sh *SurveyHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	surveyID, err := uuid.Parse(c.Param("surveyId"))
	if err != nil {
		RespondError(c, apperrors.ErrSurveyNotFound)
		return
	}
	if err := sh.surveyService.Delete(c.Request.Context(), userID, surveyID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// Results returns the raw answer rows of a survey to its author.
func (sh *SurveyHandler) Results(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	surveyID, err := uuid.Parse(c.Param("surveyId"))
	if err != nil {
		RespondError(c, apperrors.ErrSurveyNotFound)
		return
	}
	answers, err := sh.answerService.ListBySurvey(c.Request.Context(), userID, surveyID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"answers": answers})
}
