package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/internal/handlers"
	"github.com/glory-summit/summit/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:3001", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), handlers.UpdateProfile)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteAccount)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.GET("", handlers.ListUsers)
			users.GET("/:user_id", handlers.GetUser)
		}

		groupChat := api.Group("/group-chat", middleware.AuthMiddleware())
		{
			groupChat.GET("/messages", handlers.ListGroupMessages)
			groupChat.POST("/messages", handlers.CreateGroupMessage)
			groupChat.DELETE("/messages/:message_id", handlers.DeleteGroupMessage)
		}

		messages := api.Group("/messages", middleware.AuthMiddleware())
		{
			messages.POST("/:message_id/reactions", handlers.AddReaction)
			messages.DELETE("/:message_id/reactions", handlers.RemoveReaction)
		}

		connections := api.Group("/connections", middleware.AuthMiddleware())
		{
			connections.POST("", handlers.CreateConnection)
			connections.GET("", handlers.ListConnections)
			connections.PATCH("/:connection_id", handlers.UpdateConnection)
		}

		questions := api.Group("/questions", middleware.AuthMiddleware())
		{
			questions.POST("", handlers.CreateQuestion)
			questions.GET("", handlers.ListQuestions)
			questions.PATCH("/:question_id/answer", handlers.AnswerQuestion)
		}

		surveys := api.Group("/surveys", middleware.AuthMiddleware())
		{
			surveys.POST("", handlers.CreateSurvey)
			surveys.GET("", handlers.ListSurveys)
			surveys.GET("/:survey_id", handlers.GetSurvey)
			surveys.PATCH("/:survey_id/status", handlers.UpdateSurveyStatus)
			surveys.POST("/:survey_id/responses", handlers.SubmitResponse)
		}

		analytics := api.Group("/analytics", middleware.AuthMiddleware())
		{
			analytics.POST("/sessions", handlers.StartSession)
			analytics.PATCH("/sessions/:session_id/end", handlers.EndSession)
			analytics.POST("/events", handlers.RecordEvent)
			analytics.GET("/summary", handlers.GetAnalyticsSummary)
		}
	}

	return r
}
