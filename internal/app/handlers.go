package app

import (
	"github.com/thesurvey/api/internal/handlers"
	"github.com/thesurvey/api/internal/platform/logger"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	User          *handlers.UserHandler
	Survey        *handlers.SurveyHandler
	Answer        *handlers.AnswerHandler
	Certification *handlers.CertificationHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:          handlers.NewAuthHandler(serviceset.User, serviceset.Auth),
		User:          handlers.NewUserHandler(serviceset.User),
		Survey:        handlers.NewSurveyHandler(serviceset.Survey, serviceset.Answer),
		Answer:        handlers.NewAnswerHandler(serviceset.Answer),
		Certification: handlers.NewCertificationHandler(serviceset.Certification),
	}
}
