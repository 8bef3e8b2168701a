package main

import (
	"context"
	"log"
	"strings"
	"time"

	"aurora/internal/config"
	"aurora/internal/db"
	"aurora/internal/event"
	"aurora/internal/handlers"
	"aurora/internal/llm"
	"aurora/internal/middleware"
	"aurora/internal/models"
	"aurora/internal/repository"
	"aurora/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Disconnect(client)
	database := client.Database(cfg.MongoDatabase)

	// Repositories
	userRepo := repository.NewUserRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	roomRepo := repository.NewRoomRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)
	noteRepo := repository.NewNoteRepository(database)
	flashcardRepo := repository.NewFlashcardRepository(database)

	for name, ensure := range map[string]func(context.Context) error{
		"users":    userRepo.EnsureIndexes,
		"rooms":    roomRepo.EnsureIndexes,
		"attempts": attemptRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatalf("Failed to create %s indexes: %v", name, err)
		}
	}

	// RabbitMQ event publisher
	var publisher *event.Publisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		publisher, err = event.NewPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTRefreshSecret)
	questionService := service.NewQuestionService(questionRepo)
	quizService := service.NewQuizService(quizRepo, questionRepo, roomRepo)
	roomService := service.NewRoomService(roomRepo, attemptRepo, quizService)
	attemptService := service.NewAttemptService(attemptRepo, roomRepo, quizService, userRepo)
	leaderboardService := service.NewLeaderboardService(attemptRepo, userRepo)
	noteService := service.NewNoteService(noteRepo)
	flashcardService := service.NewFlashcardService(flashcardRepo)
	adminService := service.NewAdminService(userRepo, noteRepo, quizRepo, roomRepo, attemptRepo)

	if err := authService.EnsureDefaultAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed default admin: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	quizHandler := handlers.NewQuizHandler(quizService)
	roomHandler := handlers.NewRoomHandler(roomService, publisher)
	attemptHandler := handlers.NewAttemptHandler(attemptService, leaderboardService, publisher)
	noteHandler := handlers.NewNoteHandler(noteService)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardService)
	adminHandler := handlers.NewAdminHandler(adminService)
	aiHandler := handlers.NewAIHandler(llm.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey))

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.Authenticate([]byte(cfg.JWTSecret)))
	{
		protected.GET("/users/me", authHandler.Me)
		protected.PUT("/users/me", authHandler.UpdateMe)
		protected.PUT("/users/me/password", authHandler.ChangePassword)

		questions := protected.Group("/questions", middleware.RequireRoles(models.RoleLecturer))
		{
			questions.POST("", questionHandler.CreateQuestion)
			questions.GET("", questionHandler.ListQuestions)
			questions.GET("/:id", questionHandler.GetQuestion)
			questions.PUT("/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
		}

		quizzes := protected.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.GET("/:id", quizHandler.GetQuiz)

			staff := quizzes.Group("", middleware.RequireRoles(models.RoleLecturer))
			staff.POST("", quizHandler.CreateQuiz)
			staff.GET("/mine", quizHandler.ListMine)
			staff.PUT("/:id", quizHandler.UpdateQuiz)
			staff.DELETE("/:id", quizHandler.DeleteQuiz)
		}

		rooms := protected.Group("/rooms")
		{
			rooms.GET("/available", roomHandler.ListAvailable)
			rooms.POST("/join", roomHandler.JoinByCode)
			rooms.POST("/:id/start", middleware.RequireRoles(models.RoleStudent), attemptHandler.StartAttempt)
			rooms.GET("/:id/leaderboard", attemptHandler.GetLeaderboard)

			staff := rooms.Group("", middleware.RequireRoles(models.RoleLecturer))
			staff.POST("", roomHandler.CreateRoom)
			staff.GET("/mine", roomHandler.ListMine)
			staff.PATCH("/:id/toggle", roomHandler.ToggleActive)
			staff.DELETE("/:id", roomHandler.DeleteRoom)
		}

		attempts := protected.Group("/attempts")
		{
			attempts.GET("/mine", attemptHandler.ListMyAttempts)
			attempts.GET("/:id", attemptHandler.GetAttempt)
			attempts.POST("/:id/submit", attemptHandler.SubmitAttempt)
			attempts.GET("/:id/report", attemptHandler.DownloadReport)
			attempts.DELETE("/:id", middleware.RequireRoles(models.RoleLecturer), attemptHandler.DeleteAttempt)
		}

		notes := protected.Group("/notes")
		{
			notes.POST("", noteHandler.CreateNote)
			notes.GET("", noteHandler.ListNotes)
			notes.GET("/:id", noteHandler.GetNote)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}

		flashcards := protected.Group("/flashcards")
		{
			flashcards.POST("", flashcardHandler.CreateFlashcard)
			flashcards.GET("", flashcardHandler.ListFlashcards)
			flashcards.GET("/:id", flashcardHandler.GetFlashcard)
			flashcards.PUT("/:id", flashcardHandler.UpdateFlashcard)
			flashcards.DELETE("/:id", flashcardHandler.DeleteFlashcard)
		}

		ai := protected.Group("/ai")
		{
			ai.POST("/notes", aiHandler.GenerateNotes)
			ai.POST("/flashcards", aiHandler.GenerateFlashcards)
			ai.POST("/quiz", aiHandler.GenerateQuiz)
		}

		admin := protected.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/rooms", adminHandler.ListRooms)
			admin.GET("/attempts", adminHandler.ListAttempts)
			admin.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
