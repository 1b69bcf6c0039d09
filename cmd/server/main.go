package main

import (
	"log"
	"os"
	"time"

	"askhive/internal/db"
	"askhive/internal/handlers"
	"askhive/internal/middleware"
	"askhive/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Background poll closure sweep
	sweeper := services.NewPollSweeper(sweepInterval())
	sweeper.Start()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("askhive_session", store))

	// Middleware
	r.Use(middleware.LoadUser())

	// Handlers
	authHandler := handlers.NewAuthHandler()
	questionHandler := handlers.NewQuestionHandler()
	pollHandler := handlers.NewPollHandler()
	articleHandler := handlers.NewArticleHandler()
	communityHandler := handlers.NewCommunityHandler()
	challengeHandler := handlers.NewChallengeHandler()
	notificationHandler := handlers.NewNotificationHandler()
	userHandler := handlers.NewUserHandler()

	// Public Routes
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	r.GET("/questions", questionHandler.List)
	r.GET("/questions/:id", questionHandler.Detail)
	r.GET("/polls", pollHandler.List)
	r.GET("/polls/:id", pollHandler.Detail)
	r.GET("/articles/:id", articleHandler.Detail)
	r.GET("/communities", communityHandler.List)
	r.GET("/challenges", challengeHandler.List)
	r.GET("/users/:id", userHandler.Profile)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/questions", questionHandler.Create)
		authorized.POST("/questions/:id/answers", questionHandler.CreateAnswer)
		authorized.POST("/questions/:id/comments", questionHandler.CreateComment)
		authorized.POST("/answers/:id/comments", questionHandler.CreateAnswerComment)
		authorized.POST("/questions/:id/vote", questionHandler.Vote)
		authorized.POST("/questions/:id/subscribe", questionHandler.Subscribe)
		authorized.DELETE("/questions/:id/subscribe", questionHandler.Unsubscribe)

		authorized.POST("/polls", pollHandler.Create)
		authorized.POST("/polls/:id/vote", pollHandler.Vote)
		authorized.POST("/polls/sweep", pollHandler.Sweep)

		authorized.POST("/articles", articleHandler.Create)
		authorized.PUT("/articles/:id", articleHandler.Update)

		authorized.POST("/communities/:id/join", communityHandler.Join)
		authorized.DELETE("/communities/:id/join", communityHandler.Leave)

		authorized.GET("/challenges/progress", challengeHandler.Progress)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/:id/read", notificationHandler.Read)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		authorized.POST("/notifications/mute/:type", notificationHandler.Mute)
		authorized.DELETE("/notifications/mute/:type", notificationHandler.Unmute)

		authorized.POST("/rewards/equip", userHandler.Equip)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("AskHive server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func sweepInterval() time.Duration {
	if v := os.Getenv("POLL_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid POLL_SWEEP_INTERVAL %q, using default", v)
	}
	return time.Minute
}
