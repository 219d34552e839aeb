package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/thesurvey/api/internal/handlers"
	"github.com/thesurvey/api/internal/middleware"
)

type RouterConfig struct {
	AuthHandler          *handlers.AuthHandler
	AuthMiddleware       *middleware.AuthMiddleware
	UserHandler          *handlers.UserHandler
	SurveyHandler        *handlers.SurveyHandler
	AnswerHandler        *handlers.AnswerHandler
	CertificationHandler *handlers.CertificationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// User
	api.GET("/users/me", cfg.UserHandler.GetMe)
	api.GET("/users/me/points", cfg.UserHandler.GetPointHistory)
	api.GET("/users/me/surveys", cfg.SurveyHandler.ListMine)
	api.GET("/users/me/certifications", cfg.CertificationHandler.List)
	api.PUT("/users/me/certifications", cfg.CertificationHandler.Grant)
	// Survey
	api.POST("/surveys", cfg.SurveyHandler.Create)
	api.GET("/surveys", cfg.SurveyHandler.List)
	api.GET("/surveys/:surveyId", cfg.SurveyHandler.Get)
	api.PATCH("/surveys/:surveyId", cfg.SurveyHandler.Update)
	api.DELETE("/surveys/:surveyId", cfg.SurveyHandler.Delete)
	api.GET("/surveys/:surveyId/answers", cfg.SurveyHandler.Results)
	// Answer
	api.POST("/answers", cfg.AnswerHandler.Submit)

	return router
}
