package app

import (
	"github.com/gin-gonic/gin"

	"github.com/thesurvey/api/internal/server"
)

func wireRouter(handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:          handlerset.Auth,
		AuthMiddleware:       mw.Auth,
		UserHandler:          handlerset.User,
		SurveyHandler:        handlerset.Survey,
		AnswerHandler:        handlerset.Answer,
		CertificationHandler: handlerset.Certification,
	})
}
