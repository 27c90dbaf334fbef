package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/onboarding-portal/api/internal/config"
	"github.com/onboarding-portal/api/internal/constants"
	"github.com/onboarding-portal/api/internal/database"
	"github.com/onboarding-portal/api/internal/handlers"
	"github.com/onboarding-portal/api/internal/middleware"
	"github.com/onboarding-portal/api/internal/repository"
	"github.com/onboarding-portal/api/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	log := setupLogger(cfg.GinMode)

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := database.Migrate(cfg); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	r := gin.Default()

	// Session middleware backed by Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"", // password
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create Redis session store")
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	contactRepo := repository.NewContactRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, contactRepo)
	taskService := services.NewTaskService(taskRepo)
	contactService := services.NewContactService(contactRepo)
	progressService := services.NewProgressService(progressRepo, userRepo, taskRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	contactHandler := handlers.NewContactHandler(contactService)
	progressHandler := handlers.NewProgressHandler(progressService)

	requireAuth := middleware.RequireAuth(cfg.LegacyHeaderAuth)
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		users := api.Group("/users")
		{
			users.POST("/enter", authHandler.Enter)
			users.POST("/exit", authHandler.Exit)
			users.GET("", requireAuth, requireAdmin, userHandler.ListUsers)
			users.POST("", requireAuth, requireAdmin, userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", requireAuth, userHandler.UpdateUser)
			users.DELETE("/:id", requireAuth, requireAdmin, userHandler.DeleteUser)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.POST("", requireAuth, requireAdmin, taskHandler.CreateTask)
			tasks.PATCH("/:id", requireAuth, requireAdmin, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireAuth, requireAdmin, taskHandler.DeleteTask)
		}

		progress := api.Group("/progress")
		{
			progress.GET("/:userId", progressHandler.GetProgress)
			progress.GET("/:userId/stats", progressHandler.GetStats)
			progress.POST("", requireAuth, progressHandler.ToggleCompletion)
		}

		contacts := api.Group("/contacts")
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.POST("", requireAuth, requireAdmin, contactHandler.CreateContact)
			contacts.PATCH("/:id", requireAuth, requireAdmin, contactHandler.UpdateContact)
			contacts.DELETE("/:id", requireAuth, requireAdmin, contactHandler.DeleteContact)
		}
	}

	addr := ":" + cfg.ServerPort
	log.WithField("addr", addr).Info("server starting")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

func setupLogger(ginMode string) *logrus.Entry {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if ginMode == "release" {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}

	return logrus.NewEntry(log)
}
